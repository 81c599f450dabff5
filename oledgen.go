/*
Package oledgen converts raster images into the packed monochrome byte
arrays used by SSD1306-class OLED displays and emits them as C source
fragments ready for inclusion in embedded firmware.
*/
package oledgen

import "log"

type Generator struct {
	catalog *Catalog
	logger  *log.Logger
}

// New returns a Generator. catalog may be nil when no conversion
// catalog is kept.
func New(catalog *Catalog, logger *log.Logger) *Generator {
	return &Generator{
		catalog: catalog,
		logger:  logger,
	}
}
