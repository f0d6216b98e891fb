package app

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/pingcap/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/logicossoftware/go-polyfmt"
)

func candidatesFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "candidates",
		Usage: "formats to try, in order (default: probe.candidates or every format)",
	}
}

func decompressFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "decompress",
		Usage: "decompress stdin first: gzip, zstd, lz4 or brotli",
	}
}

func (rt *env) transcodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "transcode",
		Usage:     "convert a document to the format named by the output extension",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file, - for stdin", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, - for stdout", Required: true},
			&cli.StringFlag{Name: "to", Usage: "output format when writing to stdout"},
			candidatesFlag(),
			decompressFlag(),
		},
		Action: rt.transcode,
	}
}

func (rt *env) transcode(c *cli.Context) error {
	in, out := c.String("input"), c.String("output")
	v, from, err := rt.load(c, in)
	if err != nil {
		return fail(errors.Annotatef(err, "read %s", in))
	}

	if out == "-" {
		to, err := polyfmt.ParseFormat(c.String("to"))
		if err != nil {
			return fail(errors.Annotate(err, "--to is required when writing to stdout"))
		}
		if err := polyfmt.ToWriter(c.App.Writer, v, to); err != nil {
			return fail(errors.Annotate(err, "write stdout"))
		}
		return nil
	}
	if err := polyfmt.ToFile(out, v, polyfmt.WithWriteLogger(rt.logger)); err != nil {
		return fail(errors.Annotatef(err, "write %s", out))
	}
	rt.logger.Info("transcoded",
		zap.String("input", in),
		zap.Stringer("from", from),
		zap.String("output", out))
	return nil
}

// load decodes name, a file path or "-" for stdin, into a generic value.
func (rt *env) load(c *cli.Context, name string) (any, polyfmt.Format, error) {
	opts, err := rt.readOptions(c)
	if err != nil {
		return nil, 0, err
	}
	candidates, err := rt.candidates(c)
	if err != nil {
		return nil, 0, err
	}
	if name == "-" {
		return polyfmt.ProbeReader[any](rt.stdin, candidates, opts...)
	}
	return polyfmt.ProbeFile[any](name, candidates, opts...)
}

func (rt *env) detectCommand() *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "print the first format that parses each file",
		ArgsUsage: "FILE...",
		Flags:     []cli.Flag{candidatesFlag(), decompressFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("detect: at least one FILE is required", 2)
			}
			failed := 0
			for _, name := range c.Args().Slice() {
				_, f, err := rt.load(c, name)
				if err != nil {
					failed++
					fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", name, err)
					continue
				}
				fmt.Fprintf(c.App.Writer, "%s: %s\n", name, f)
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("detect: %d of %d inputs not recognized", failed, c.NArg()), 1)
			}
			return nil
		},
	}
}

func (rt *env) checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "verify that each file parses, listing every format's error when none does",
		ArgsUsage: "FILE...",
		Flags:     []cli.Flag{candidatesFlag(), decompressFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("check: at least one FILE is required", 2)
			}
			failed := 0
			for _, name := range c.Args().Slice() {
				_, f, err := rt.load(c, name)
				if err == nil {
					fmt.Fprintf(c.App.Writer, "ok   %s (%s)\n", name, f)
					continue
				}
				failed++
				fmt.Fprintf(c.App.Writer, "FAIL %s\n", name)
				writeFailure(c.App.Writer, err)
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("check: %d of %d inputs failed", failed, c.NArg()), 1)
			}
			return nil
		},
	}
}

// writeFailure prints one line per attempted format when err carries a
// *polyfmt.ProbeError, and err itself otherwise.
func writeFailure(w io.Writer, err error) {
	var pe *polyfmt.ProbeError
	if stderrors.As(errors.Cause(err), &pe) {
		for _, a := range pe.Attempts {
			fmt.Fprintf(w, "     %-5s %v\n", a.Format, a.Err)
		}
		return
	}
	fmt.Fprintf(w, "     %v\n", err)
}

func (rt *env) formatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "list the formats compiled into this binary",
		Action: func(c *cli.Context) error {
			for _, f := range polyfmt.AllFormats() {
				state := ""
				if !f.IsSupported() {
					state = " (disabled)"
				}
				fmt.Fprintf(c.App.Writer, "%-5s .%s%s\n", f, strings.Join(f.Extensions(), " ."), state)
			}
			return nil
		},
	}
}

func (rt *env) stemCommand() *cli.Command {
	return &cli.Command{
		Name:      "stem",
		Usage:     "load STEM.toml, STEM.json, STEM.yaml ... and print it",
		ArgsUsage: "STEM",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Usage: "output format", Value: "json"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("stem: exactly one STEM is required", 2)
			}
			to, err := polyfmt.ParseFormat(c.String("to"))
			if err != nil {
				return fail(err)
			}
			stem := c.Args().First()
			opts, err := rt.readOptions(c)
			if err != nil {
				return fail(err)
			}
			v, found, err := polyfmt.LoadFileStem[any](stem, opts...)
			if err != nil {
				if found.Path == "" {
					return fail(errors.Annotatef(err, "stem %s", stem))
				}
				return fail(errors.Annotatef(err, "load %s", found.Path))
			}
			fmt.Fprintf(c.App.ErrWriter, "loaded %s (%s)\n", found.Path, found.Format)
			if err := polyfmt.ToWriter(c.App.Writer, v, to); err != nil {
				return fail(errors.Annotate(err, "write stdout"))
			}
			return nil
		},
	}
}
