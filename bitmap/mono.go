package bitmap

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

// Luma weights match the classic 0.30/0.59/0.11 split scaled to sum to
// 255, so the result stays within one byte.
const (
	lumaRed   = 76
	lumaGreen = 150
	lumaBlue  = 29
)

// grid is the intermediate 1-bit decision per pixel, row-major.
type grid struct {
	on            []bool
	width, height int
}

func luma(r, g, b uint8) uint8 {
	return uint8((lumaRed*uint32(r) + lumaGreen*uint32(g) + lumaBlue*uint32(b) + 255) >> 8)
}

// prepare scales the source to the target size if requested and flattens
// it to straight-alpha NRGBA. Pixels more transparent than alphaOpaque
// are replaced with opaque black and remembered in the returned mask so
// they end up off no matter what the conversion mode or inversion does.
func prepare(m image.Image, opts Options) (*image.NRGBA, []bool, error) {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if opts.Width > 0 {
		w = opts.Width
	}
	if opts.Height > 0 {
		h = opts.Height
	}
	if w < 1 || h < 1 {
		return nil, nil, ErrInvalidDimensions
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(img, img.Bounds(), m, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(img, img.Bounds(), m, b, draw.Src, nil)
	}

	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] < alphaOpaque {
				mask[y*w+x] = true
				img.Pix[i+0] = 0
				img.Pix[i+1] = 0
				img.Pix[i+2] = 0
				img.Pix[i+3] = 0xff
			}
		}
	}

	return img, mask, nil
}

func binarize(m image.Image, opts Options) (*grid, error) {
	if opts.Threshold == 0 && opts.Mode != ModeDither {
		opts.Threshold = DefaultThreshold
	}

	img, mask, err := prepare(m, opts)
	if err != nil {
		return nil, err
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	g := &grid{
		on:     make([]bool, w*h),
		width:  w,
		height: h,
	}

	switch opts.Mode {
	case ModeDither:
		ditherGrid(img, g)
	case ModeQuantize:
		quantizeGrid(img, g, opts.Threshold)
	default:
		thresholdGrid(img, g, opts.Threshold)
	}

	for i := range g.on {
		if opts.Invert {
			g.on[i] = !g.on[i]
		}
		if mask[i] {
			g.on[i] = false
		}
	}

	return g, nil
}

func thresholdGrid(img *image.NRGBA, g *grid, threshold uint8) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			i := img.PixOffset(x, y)
			g.on[y*g.width+x] = luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2]) > threshold
		}
	}
}

func ditherGrid(img *image.NRGBA, g *grid) {
	d := dither.NewDitherer([]color.Color{color.Black, color.White})
	d.Matrix = dither.FloydSteinberg
	d.Serpentine = true

	pm := d.DitherPaletted(img)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			// Palette index 1 is white.
			g.on[y*g.width+x] = pm.ColorIndexAt(x, y) == 1
		}
	}
}

func quantizeGrid(img *image.NRGBA, g *grid, threshold uint8) {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, 2), img)

	// Threshold the palette entries rather than the pixels; a single
	// color image yields a one entry palette which still works.
	lit := make([]bool, len(p))
	for i, c := range p {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		lit[i] = luma(nc.R, nc.G, nc.B) > threshold
	}

	pm := image.NewPaletted(img.Bounds(), p)
	draw.Draw(pm, pm.Bounds(), img, img.Bounds().Min, draw.Src)

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			g.on[y*g.width+x] = lit[pm.ColorIndexAt(x, y)]
		}
	}
}
