package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dotpix/oledgen"
	"github.com/dotpix/oledgen/bitmap"
	"github.com/dotpix/oledgen/codegen"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// newGenerator opens the catalog when one is configured. The returned
// close func is a no-op otherwise.
func newGenerator(c *cli.Context) (*oledgen.Generator, func() error, error) {
	closer := func() error { return nil }

	var catalog *oledgen.Catalog
	if file := c.String("db"); file != "" {
		var err error
		if catalog, err = oledgen.OpenCatalog(file); err != nil {
			return nil, nil, err
		}
		closer = catalog.Close
	}

	return oledgen.New(catalog, newLogger(c)), closer, nil
}

func conversionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "width",
			Usage: "scale to this width before converting (0 keeps the source width)",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "scale to this height before converting (0 keeps the source height)",
		},
		&cli.IntFlag{
			Name:  "threshold",
			Value: bitmap.DefaultThreshold,
			Usage: "luma a pixel must exceed to be lit",
		},
		&cli.BoolFlag{
			Name:  "invert",
			Usage: "flip lit and unlit pixels",
		},
		&cli.StringFlag{
			Name:  "mode",
			Value: "threshold",
			Usage: "binarization mode: threshold, dither or quantize",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   ".",
			Usage:   "output directory for generated files",
		},
		&cli.StringFlag{
			Name:  "include-list",
			Value: "inc_imgs.h",
			Usage: "include list filename, empty to disable",
		},
		&cli.StringFlag{
			Name:  "struct-list",
			Value: "inc_struct.h",
			Usage: "struct list filename, empty to disable",
		},
		&cli.BoolFlag{
			Name:  "truncate",
			Usage: "truncate the list files before converting",
		},
		&cli.IntFlag{
			Name:  "flags",
			Usage: "value for the FLAGS define, reserved for the drawing routine",
		},
	}
}

func optionsFromContext(c *cli.Context) (oledgen.Options, error) {
	var mode bitmap.Mode
	switch c.String("mode") {
	case "threshold":
		mode = bitmap.ModeThreshold
	case "dither":
		mode = bitmap.ModeDither
	case "quantize":
		mode = bitmap.ModeQuantize
	default:
		return oledgen.Options{}, fmt.Errorf("unknown mode %q", c.String("mode"))
	}

	return oledgen.Options{
		Bitmap: bitmap.Options{
			Mode:      mode,
			Threshold: uint8(c.Int("threshold")),
			Invert:    c.Bool("invert"),
			Width:     c.Int("width"),
			Height:    c.Int("height"),
		},
		Name:      c.String("name"),
		OutputDir: c.String("output"),
		Flags:     uint8(c.Int("flags")),
	}, nil
}

func newAccumulator(c *cli.Context) (*codegen.Accumulator, error) {
	acc := codegen.NewAccumulator(c.String("output"), c.String("include-list"), c.String("struct-list"))
	if c.Bool("truncate") {
		if err := acc.Reset(); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "oledgen"
	app.Usage = "convert images to SSD1306 byte arrays as C source fragments"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"OLEDGEN_DB"},
			Usage:   "path to conversion catalog, empty to disable",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert a single image",
			ArgsUsage: "FILE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "name",
					Usage: "symbol base name, defaults to the image filename",
				},
			}, conversionFlags()...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				g, closer, err := newGenerator(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closer()

				opts, err := optionsFromContext(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				acc, err := newAccumulator(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if _, err := g.Convert(c.Args().First(), acc, opts); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "scan",
			Usage:     "Convert every image below a directory",
			ArgsUsage: "DIRECTORY",
			Flags:     conversionFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				g, closer, err := newGenerator(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closer()

				opts, err := optionsFromContext(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				acc, err := newAccumulator(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := g.Scan(c.Args().First(), acc, opts); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List the conversion catalog",
			Action: func(c *cli.Context) error {
				if c.String("db") == "" {
					return cli.NewExitError("no catalog configured, set --db", 1)
				}

				catalog, err := oledgen.OpenCatalog(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer catalog.Close()

				conversions, err := catalog.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, v := range conversions {
					fmt.Printf("%s\t%dx%d\t%d bytes\t%s\t%s\n", v.Name, v.Width, v.Height, v.DataLen, v.Header, v.Path)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
