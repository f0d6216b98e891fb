package polyfmt

import (
	"io/fs"

	"go.uber.org/zap"
)

type readConfig struct {
	limits      Limits
	compression Compression
	logger      *zap.Logger
}

type ReadOption func(*readConfig)

func newReadConfig(opts []ReadOption) *readConfig {
	cfg := &readConfig{limits: defaultLimits(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithDecompression decompresses in-memory and reader inputs before decoding.
// File inputs whose name carries a compression suffix ignore it.
func WithDecompression(comp Compression) ReadOption {
	return func(c *readConfig) { c.compression = comp }
}

// WithLogger traces probe attempts and file resolution at debug level.
// Without it nothing is logged.
func WithLogger(l *zap.Logger) ReadOption {
	return func(c *readConfig) { c.logger = l }
}

type writeConfig struct {
	compression Compression
	fileMode    fs.FileMode
	logger      *zap.Logger
}

type WriteOption func(*writeConfig)

func newWriteConfig(opts []WriteOption) *writeConfig {
	cfg := &writeConfig{fileMode: 0o644, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

// WithCompression compresses the encoded output of ToVec and ToWriter.
// ToFile takes the compression from the path suffix instead.
func WithCompression(comp Compression) WriteOption {
	return func(c *writeConfig) { c.compression = comp }
}

func WithFileMode(mode fs.FileMode) WriteOption {
	return func(c *writeConfig) { c.fileMode = mode }
}

func WithWriteLogger(l *zap.Logger) WriteOption {
	return func(c *writeConfig) { c.logger = l }
}
