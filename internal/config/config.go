// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of the wavsource command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string         `yaml:"log_level"`
	Source   SourceConfig   `yaml:"source"`
	Resolve  ResolveConfig  `yaml:"resolve"`
	Registry RegistryConfig `yaml:"registry"`
}

// SourceConfig configures every media source the command opens.
type SourceConfig struct {
	BufferDuration time.Duration `yaml:"buffer_duration"`
}

// ResolveConfig bounds concurrent resolutions.
type ResolveConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RegistryConfig locates the registration table file.
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Source: SourceConfig{
			BufferDuration: 100 * time.Millisecond,
		},
		Resolve: ResolveConfig{
			Concurrency: 4,
			Timeout:     10 * time.Second,
		},
		Registry: RegistryConfig{
			Path: "wavsource-handlers.yaml",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over the defaults and
// validates the result. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg holds usable values. It returns every problem
// found, joined.
func Validate(cfg *Config) error {
	var errs []error

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if cfg.Source.BufferDuration <= 0 {
		errs = append(errs, fmt.Errorf("config: source.buffer_duration must be positive, got %v", cfg.Source.BufferDuration))
	}
	if cfg.Resolve.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("config: resolve.concurrency must be at least 1, got %d", cfg.Resolve.Concurrency))
	}
	if cfg.Resolve.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("config: resolve.timeout must be positive, got %v", cfg.Resolve.Timeout))
	}
	if strings.TrimSpace(cfg.Registry.Path) == "" {
		errs = append(errs, errors.New("config: registry.path is required"))
	}

	return errors.Join(errs...)
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: unknown log_level %q", s)
}
