// Package config loads service settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAddr         = ":8000"
	DefaultStaticDir    = "static"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = FormatText
	DefaultMaxBodyBytes = 1 << 20
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds every service setting. Zero values are filled from the
// defaults by Load and Default.
type Config struct {
	Addr         string `yaml:"addr"`
	StaticDir    string `yaml:"static_dir"`
	DB           string `yaml:"db"` // empty disables history
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:         DefaultAddr,
		StaticDir:    DefaultStaticDir,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns
// Default(). Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Overrides carries flag values. Nil fields leave the loaded value alone.
type Overrides struct {
	Addr      *string
	StaticDir *string
	DB        *string
	LogLevel  *string
}

// Apply returns cfg with every non-nil override applied.
func (c Config) Apply(o Overrides) Config {
	if o.Addr != nil {
		c.Addr = *o.Addr
	}
	if o.StaticDir != nil {
		c.StaticDir = *o.StaticDir
	}
	if o.DB != nil {
		c.DB = *o.DB
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	return c
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	switch c.LogFormat {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log_format: unknown format %q (expected %s or %s)", c.LogFormat, FormatText, FormatJSON))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes: must be positive, got %d", c.MaxBodyBytes))
	}
	return errors.Join(errs...)
}

// Logger builds a logrus logger for the configured level and format.
// Call Validate first; an invalid level falls back to info.
func (c Config) Logger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if c.LogFormat == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
