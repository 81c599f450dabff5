/*
Package bitmap converts a decoded image into the packed monochrome byte
layout used by SSD1306-class OLED controllers.

The display stores pixels in horizontal "pages" of eight rows. Each byte
holds one column of a page with the least significant bit at the top row,
so an image of W x H pixels packs into W * ceil(H/8) bytes ordered
page-major, column-minor. Rows past the image height inside the last page
are padded with zero bits.
*/
package bitmap

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

const (
	pageHeight = 8

	// DefaultThreshold is the luma value a pixel must exceed to count
	// as lit in ModeThreshold.
	DefaultThreshold = 127

	// alphaOpaque is the minimum alpha for a pixel to keep its color;
	// anything more transparent is treated as background and packs as
	// an off bit.
	alphaOpaque = 128
)

var ErrInvalidDimensions = errors.New("bitmap: image has zero width or height")

// Mode selects how pixels are reduced to one bit.
type Mode int

const (
	// ModeThreshold compares each pixel's luma against a fixed cutoff.
	ModeThreshold Mode = iota
	// ModeDither runs serpentine Floyd-Steinberg dithering to a
	// black/white palette.
	ModeDither
	// ModeQuantize median-cuts the image to a two color palette and
	// thresholds the palette entries instead of the raw pixels.
	ModeQuantize
)

// Options control the conversion from color pixels to bits. The zero
// value selects ModeThreshold with DefaultThreshold, no inversion and no
// scaling.
type Options struct {
	Mode      Mode
	Threshold uint8
	Invert    bool

	// Width and Height, when non-zero, scale the source image to that
	// size before conversion.
	Width  int
	Height int
}

// PackedBitmap is a monochrome image in display byte order.
type PackedBitmap struct {
	width, height int
	data          []byte
}

func (b *PackedBitmap) Width() int {
	return b.width
}

func (b *PackedBitmap) Height() int {
	return b.height
}

// Pages returns the number of 8-row pages, including a partial last page.
func (b *PackedBitmap) Pages() int {
	return (b.height + pageHeight - 1) / pageHeight
}

// Data returns the packed bytes, W * ceil(H/8) of them.
func (b *PackedBitmap) Data() []byte {
	return b.data
}

// Bit returns 1 if the pixel at (x, y) is lit.
func (b *PackedBitmap) Bit(x, y int) byte {
	return b.data[(y/pageHeight)*b.width+x] >> (y % pageHeight) & 1
}

func (b *PackedBitmap) String() string {
	return fmt.Sprintf("PackedBitmap(%d,%d)", b.width, b.height)
}

// Preview renders the bitmap as rows of '*' and ' ', one line per pixel
// row, matching what the generated header embeds as a comment.
func (b *PackedBitmap) Preview() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if b.Bit(x, y) != 0 {
				sb.WriteByte('*')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Pack converts m to display byte order. The image is first reduced to
// one bit per pixel according to opts, then assembled page by page.
func Pack(m image.Image, opts Options) (*PackedBitmap, error) {
	g, err := binarize(m, opts)
	if err != nil {
		return nil, err
	}
	return packGrid(g), nil
}

func packGrid(g *grid) *PackedBitmap {
	pages := (g.height + pageHeight - 1) / pageHeight
	data := make([]byte, g.width*pages)

	for p := 0; p < pages; p++ {
		for x := 0; x < g.width; x++ {
			var b byte
			for bit := 0; bit < pageHeight; bit++ {
				y := p*pageHeight + bit
				if y >= g.height {
					break
				}
				if g.on[y*g.width+x] {
					b |= 1 << bit
				}
			}
			data[p*g.width+x] = b
		}
	}

	return &PackedBitmap{
		width:  g.width,
		height: g.height,
		data:   data,
	}
}
