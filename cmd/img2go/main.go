package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"

	"github.com/bodgit/img2go"
	"github.com/bodgit/img2go/codec"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "img2go",
	})
	if c.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// toggleValue sets a shared bool to on when its flag is given, so when
// several flags share it the last one on the command line wins
type toggleValue struct {
	dst *bool
	on  bool
}

func (v *toggleValue) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if b {
		*v.dst = v.on
	}
	return nil
}

func (v *toggleValue) String() string {
	if v.dst == nil {
		return "false"
	}
	return strconv.FormatBool(*v.dst == v.on)
}

func (v *toggleValue) IsBoolFlag() bool { return true }

// toggleFlag is a BoolFlag whose value is shared with other toggleFlags
type toggleFlag struct {
	*cli.BoolFlag
	value *toggleValue
}

func (f *toggleFlag) Apply(set *flag.FlagSet) error {
	for _, name := range f.Names() {
		set.Var(f.value, name, f.Usage)
	}
	return nil
}

// The -f and -F flags turn compatible accessors on and off, whichever is
// given last wins
func newToggleFlags(dst *bool) (on, off cli.Flag) {
	on = &toggleFlag{
		BoolFlag: &cli.BoolFlag{
			Name:    "compatible",
			Aliases: []string{"f", "compatibile"},
			Usage:   "generate getNameData style accessors",
		},
		value: &toggleValue{dst: dst, on: true},
	}
	off = &toggleFlag{
		BoolFlag: &cli.BoolFlag{
			Name:    "no-compatible",
			Aliases: []string{"F"},
			Usage:   "don't generate accessors",
		},
		value: &toggleValue{dst: dst, on: false},
	}
	return
}

// Print the usage of the running subcommand. The help has to be looked up
// from the parent context as the subcommand has no subcommands of its own
func showUsage(c *cli.Context) error {
	lineage := c.Lineage()
	if len(lineage) < 2 {
		return cli.ShowAppHelp(c)
	}
	return cli.ShowCommandHelp(lineage[1], c.Command.Name)
}

func embedOptions(c *cli.Context, compatible bool) (img2go.Options, error) {
	var mask color.Color
	if s := c.String("mask"); s != "" {
		var err error
		if mask, err = codec.ParseColor(s); err != nil {
			return img2go.Options{}, err
		}
	}

	return img2go.Options{
		Append:     c.Bool("append"),
		Mask:       mask,
		Name:       c.String("name"),
		Icon:       c.Bool("icon"),
		Catalog:    c.Bool("catalog"),
		Compatible: compatible,
		Package:    c.String("package"),
		Colors:     c.Int("colors"),
	}, nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "img2go"
	app.Usage = "Embed images in Go source"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			EnvVars: []string{"IMG2GO_VERBOSE"},
			Usage:   "increase verbosity",
		},
	}

	var compatible bool
	compatibleFlag, noCompatibleFlag := newToggleFlags(&compatible)

	app.Commands = []*cli.Command{
		{
			Name:  "embed",
			Usage: "Convert an image to PNG and embed it in a Go source file",
			Description: "The image is converted to PNG and written to FILE, or standard output if\n" +
				"FILE is \"-\", as an embedded.Image. Use --append with --name to collect\n" +
				"several images in one file.",
			ArgsUsage: "IMAGE FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "append",
					Aliases: []string{"a"},
					Usage:   "append to FILE instead of overwriting it",
				},
				&cli.StringFlag{
					Name:    "mask",
					Aliases: []string{"m"},
					Usage:   "use `#RRGGBB` as the transparent color, overriding any transparency in IMAGE",
				},
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "logical `NAME` of the image, defaults to the filename",
				},
				&cli.BoolFlag{
					Name:    "catalog",
					Aliases: []string{"c"},
					Usage:   "maintain a catalog and index of images in FILE",
				},
				&cli.BoolFlag{
					Name:    "icon",
					Aliases: []string{"i"},
					Usage:   "also generate an icon accessor",
				},
				compatibleFlag,
				noCompatibleFlag,
				&cli.StringFlag{
					Name:    "package",
					EnvVars: []string{"IMG2GO_PACKAGE"},
					Value:   "main",
					Usage:   "package `NAME` used when starting a new file",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce the image to at most `N` colors",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 2 {
					return showUsage(c)
				}

				opts, err := embedOptions(c, compatible)
				if err != nil {
					fmt.Fprintf(c.App.ErrWriter, "Error: %v\n\n", err)
					return showUsage(c)
				}

				e := img2go.New(codec.New(), newLogger(c, os.Stderr))
				if _, err := e.Embed(c.Args().Get(0), c.Args().Get(1), opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Embed all of the images listed in a manifest",
			Description: "MANIFEST is a YAML file listing the images to embed and the output file.",
			ArgsUsage:   "MANIFEST",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return showUsage(c)
				}

				m, err := img2go.LoadManifest(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				e := img2go.New(codec.New(), newLogger(c, os.Stderr))
				if _, err := e.EmbedAll(context.Background(), m); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
