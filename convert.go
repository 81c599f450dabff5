package oledgen

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"

	"github.com/dotpix/oledgen/bitmap"
	"github.com/dotpix/oledgen/codegen"
)

// Options bundle everything that shapes one conversion.
type Options struct {
	// Bitmap controls binarization and scaling.
	Bitmap bitmap.Options

	// Name overrides the symbol base derived from the source filename.
	// Ignored by Scan, where every file names itself.
	Name string

	// OutputDir receives the generated header; empty means the current
	// directory.
	OutputDir string

	// Flags is stored verbatim in the header's FLAGS define, reserved
	// for the downstream drawing routine.
	Flags uint8
}

// Convert decodes one image, packs it and writes the generated header,
// appending the include and struct lines to acc when one is given. The
// invocation either fully succeeds or fails with the first error.
func (g *Generator) Convert(file string, acc *codegen.Accumulator, opts Options) (*codegen.Header, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %q", file)
	}
	m, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode %q", file)
	}

	bm, err := bitmap.Pack(m, opts.Bitmap)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot pack %q", file)
	}

	hdr := codegen.NewHeader(file, opts.Name, bm)
	hdr.Flags = opts.Flags
	hdr.Comment = conversionComment(file, format, m, bm)

	path, err := hdr.WriteFile(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	if acc != nil {
		if err := acc.Add(hdr); err != nil {
			return nil, err
		}
	}

	if g.catalog != nil {
		crc, err := crcFile(file)
		if err != nil {
			return nil, err
		}
		if err := g.catalog.Record(Conversion{
			Name:      hdr.Name,
			Path:      file,
			CRC:       crc,
			Width:     hdr.Width,
			Height:    hdr.Height,
			DataLen:   len(hdr.Data),
			Header:    hdr.Filename(),
			CreatedAt: time.Now(),
		}); err != nil {
			return nil, err
		}
	}

	g.logger.Printf("converted %q to %q (%dx%d, %d bytes)", file, path, hdr.Width, hdr.Height, len(hdr.Data))

	return hdr, nil
}

// Scan converts every image below dir, one at a time in walk order.
// With a catalog open, files whose fingerprint is already recorded are
// skipped. Batching is strictly sequential; the accumulator files are
// plain appends and concurrent writers would interleave them.
func (g *Generator) Scan(dir string, acc *codegen.Accumulator, opts Options) error {
	base, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	opts.Name = ""

	return filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Ignore hidden files and directories
		if info.Name()[0] == '.' {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(file)) {
		case ".png", ".gif", ".jpg", ".jpeg", ".bmp":
		default:
			return nil
		}

		if g.catalog != nil {
			crc, err := crcFile(file)
			if err != nil {
				return err
			}
			prev, err := g.catalog.FindByCRC(crc)
			if err != nil {
				return err
			}
			if prev != nil {
				g.logger.Printf("skipping %q, already converted as %q", file, prev.Name)
				return nil
			}
		}

		_, err = g.Convert(file, acc, opts)
		return err
	})
}

// conversionComment builds the block comment embedded in the generated
// header: source details plus an ASCII preview of the packed result.
func conversionComment(file, format string, m image.Image, bm *bitmap.PackedBitmap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Filename: %s\n", file)
	fmt.Fprintf(&b, "Format: %s\n", format)
	fmt.Fprintf(&b, "Input image Width: %d\n", m.Bounds().Dx())
	fmt.Fprintf(&b, "Input image Height: %d\n", m.Bounds().Dy())
	fmt.Fprintf(&b, "Result image Width: %d\n", bm.Width())
	fmt.Fprintf(&b, "Result image Height: %d\n", bm.Height())
	b.WriteString(bm.Preview())
	return b.String()
}
