/*
Package codegen renders a packed bitmap as C source fragments: a
standalone header carrying the byte array plus dimension defines, a
one-line include directive and a one-line struct entry. The include and
struct lines accumulate across invocations in two list files so a batch
of images builds up a single pair of generated includes:

	#include "inc_imgs.h"

	const ImageData images[] = {
	    #include "inc_struct.h"
	};
*/
package codegen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dotpix/oledgen/bitmap"
)

const bytesPerLine = 8

// Header holds everything emitted for one converted image.
type Header struct {
	// Name is the source file's base name without extension; Ext is
	// the extension without the dot. Together they give the generated
	// filenames and symbols.
	Name string
	Ext  string

	Width  int
	Height int
	Flags  uint8

	// Comment is embedded verbatim inside a block comment, typically
	// the conversion log plus an ASCII preview.
	Comment string

	Data []byte
}

// NewHeader builds a Header for the bitmap converted from the given
// source path. An empty name falls back to the source's base name.
func NewHeader(source, name string, bm *bitmap.PackedBitmap) *Header {
	base := filepath.Base(source)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if name == "" {
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &Header{
		Name:   name,
		Ext:    ext,
		Width:  bm.Width(),
		Height: bm.Height(),
		Data:   bm.Data(),
	}
}

// Symbol returns the define base, e.g. IMG_logo for logo.png.
func (h *Header) Symbol() string {
	return "IMG_" + strings.ReplaceAll(h.Name, "-", "_")
}

// Filename returns the generated header filename, e.g. Img_logo_png.h.
func (h *Header) Filename() string {
	if h.Ext == "" {
		return fmt.Sprintf("Img_%s.h", h.Name)
	}
	return fmt.Sprintf("Img_%s_%s.h", h.Name, h.Ext)
}

// IncludeLine returns the line appended to the include list file.
func (h *Header) IncludeLine() string {
	return fmt.Sprintf("#include %q\n", h.Filename())
}

// StructLine returns the line appended to the struct list file. It
// references the defines from the header so the downstream array
// initializer stays in sync with the data.
func (h *Header) StructLine() string {
	s := h.Symbol()
	return fmt.Sprintf("{%s_W, %s_H, %s_FLAGS, %s_Data, %s_FILENAME},\n", s, s, s, s, s)
}

// Render produces the full header contents: include guard, dimension
// defines, the optional comment block and the byte array with a running
// offset comment every line.
func (h *Header) Render() []byte {
	s := h.Symbol()

	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\n", s)
	fmt.Fprintf(&b, "#define %s\n\n", s)
	fmt.Fprintf(&b, "#define %s_W\t%d\n", s, h.Width)
	fmt.Fprintf(&b, "#define %s_H\t%d\n", s, h.Height)
	fmt.Fprintf(&b, "#define %s_FLAGS\t%#x\n", s, h.Flags)
	fmt.Fprintf(&b, "#define %s_FILENAME\t%q\n", s, h.Name)
	fmt.Fprintf(&b, "#define %s_DATA_LEN\t%d\n\n", s, len(h.Data))

	if h.Comment != "" {
		fmt.Fprintf(&b, "/*\n%s*/\n\n", h.Comment)
	}

	fmt.Fprintf(&b, "static const unsigned char %s_Data[] = {\n", s)
	for start := 0; start < len(h.Data); start += bytesPerLine {
		end := start + bytesPerLine
		if end > len(h.Data) {
			end = len(h.Data)
		}
		b.WriteByte('\t')
		for _, v := range h.Data[start:end] {
			fmt.Fprintf(&b, "0x%02x, ", v)
		}
		fmt.Fprintf(&b, "// %d\n", start)
	}
	fmt.Fprintf(&b, "}; // %s_Data\n\n", s)
	fmt.Fprintf(&b, "#endif // %s\n", s)

	return []byte(b.String())
}
