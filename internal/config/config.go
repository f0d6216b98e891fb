// Package config loads the polyfmt command's settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/logicossoftware/go-polyfmt"
)

// Config is the root configuration of the polyfmt command.
type Config struct {
	// Log holds logging configuration
	Log LogConfig `mapstructure:"log"`

	// Probe controls which formats are tried when an input names none
	Probe ProbeConfig `mapstructure:"probe"`

	// Limits bounds how much a single input may occupy in memory
	Limits LimitsConfig `mapstructure:"limits"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	Rotation    RotationConfig `mapstructure:"rotation"`
	Development bool           `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type ProbeConfig struct {
	// Candidates lists format names in the order they are tried. Empty means every
	// format compiled into the binary, in registry order.
	Candidates []string `mapstructure:"candidates"`
}

type LimitsConfig struct {
	MaxInputMB        int64 `mapstructure:"max_input_mb"`
	MaxDecompressedMB int64 `mapstructure:"max_decompressed_mb"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	d := polyfmt.DefaultLimits()
	return &Config{
		Log: LogConfig{
			Level:   "warn",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Filename:   "logs/polyfmt.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Limits: LimitsConfig{
			MaxInputMB:        d.MaxInputSize >> 20,
			MaxDecompressedMB: d.MaxDecompressed >> 20,
		},
	}
}

// Load reads configuration from path if it is non-empty, or else from the first
// polyfmt.yaml found in the working directory or $HOME/.polyfmt. A missing file is
// not an error. Environment variables use the prefix POLYFMT with `.` and `-`
// replaced by `_`, e.g. POLYFMT_LOG_LEVEL=debug.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("POLYFMT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults so env-only configs work
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("probe.candidates", []string{})
	v.SetDefault("limits.max_input_mb", cfg.Limits.MaxInputMB)
	v.SetDefault("limits.max_decompressed_mb", cfg.Limits.MaxDecompressedMB)

	if path == "" {
		path = os.Getenv("POLYFMT_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("polyfmt")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".polyfmt"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "":
		c.Log.Format = "console"
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format: %q", c.Log.Format)
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}
	if _, err := c.Probe.Formats(); err != nil {
		return fmt.Errorf("invalid probe.candidates: %w", err)
	}
	if c.Limits.MaxInputMB < 0 || c.Limits.MaxDecompressedMB < 0 {
		return fmt.Errorf("invalid limits: sizes must not be negative")
	}
	return nil
}

// Formats resolves the configured candidate names. It returns nil when none are
// configured.
func (p ProbeConfig) Formats() ([]polyfmt.Format, error) {
	var out []polyfmt.Format
	for _, name := range p.Candidates {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, err := polyfmt.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ReadLimits converts the configured sizes into library limits. Zero keeps the
// library default.
func (l LimitsConfig) ReadLimits() polyfmt.Limits {
	return polyfmt.Limits{
		MaxInputSize:    l.MaxInputMB << 20,
		MaxDecompressed: l.MaxDecompressedMB << 20,
	}
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
