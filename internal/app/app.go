// Package app implements the polyfmt command line tool.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/pingcap/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/logicossoftware/go-polyfmt"
	"github.com/logicossoftware/go-polyfmt/internal/config"
	"github.com/logicossoftware/go-polyfmt/internal/observability"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

type env struct {
	cfg    *config.Config
	logger *zap.Logger
	stdin  io.Reader
}

// New returns the polyfmt application writing to stdout and stderr and reading "-"
// arguments from stdin.
func New(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	rt := &env{stdin: stdin, logger: zap.NewNop()}

	app := cli.NewApp()
	app.Name = "polyfmt"
	app.Usage = "read, detect and convert TOML, JSON, YAML, RON, XML and CBOR documents"
	app.Version = Version
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a polyfmt.yaml configuration file",
			EnvVars: []string{"POLYFMT_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "console or json",
		},
	}
	app.Before = rt.setup
	app.After = func(*cli.Context) error {
		_ = rt.logger.Sync()
		return nil
	}
	app.Commands = []*cli.Command{
		rt.transcodeCommand(),
		rt.detectCommand(),
		rt.checkCommand(),
		rt.formatsCommand(),
		rt.stemCommand(),
	}
	return app
}

// Main runs the application against the process arguments and exits.
func Main() {
	if err := New(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (rt *env) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(errors.Annotate(err, "load config").Error(), 2)
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		return cli.Exit(errors.Annotate(err, "setup logger").Error(), 2)
	}
	rt.cfg = cfg
	rt.logger = logger
	return nil
}

func (rt *env) readOptions(c *cli.Context) ([]polyfmt.ReadOption, error) {
	opts := []polyfmt.ReadOption{
		polyfmt.WithReadLimits(rt.cfg.Limits.ReadLimits()),
		polyfmt.WithLogger(rt.logger),
	}
	if c.IsSet("decompress") {
		comp, err := parseCompression(c.String("decompress"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, polyfmt.WithDecompression(comp))
	}
	return opts, nil
}

// candidates returns the formats named by the --candidates flag, falling back to the
// configured probe list. Nil means let the library decide.
func (rt *env) candidates(c *cli.Context) ([]polyfmt.Format, error) {
	names := c.StringSlice("candidates")
	if len(names) == 0 {
		return rt.cfg.Probe.Formats()
	}
	return config.ProbeConfig{Candidates: names}.Formats()
}

func parseCompression(name string) (polyfmt.Compression, error) {
	for _, comp := range []polyfmt.Compression{polyfmt.CompNone, polyfmt.CompGzip, polyfmt.CompZSTD, polyfmt.CompLZ4, polyfmt.CompBR} {
		if name == comp.String() || (comp != polyfmt.CompNone && name == comp.Extension()) {
			return comp, nil
		}
	}
	return polyfmt.CompNone, errors.Errorf("unknown compression %q", name)
}

// fail turns err into an exit error carrying its message but not its stack.
func fail(err error) error {
	return cli.Exit(err.Error(), 1)
}
