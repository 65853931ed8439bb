// Package config loads pyoutline configuration: defaults, an optional
// per-root config file, and environment overrides. The loaded value is
// passed explicitly into the driver; nothing reads process-global state.
package config

import (
	"fmt"
	"runtime"
)

// Config is the complete pyoutline configuration. It can be loaded from
// <root>/.pyoutline.yaml with PYOUTLINE_* environment variable overrides.
type Config struct {
	// Report is the output path for the generated report, relative to the
	// working directory unless absolute.
	Report string `yaml:"report" mapstructure:"report"`

	// IgnoreFile is the ignore file consulted for path exclusion, relative
	// to the scanned root unless absolute.
	IgnoreFile string `yaml:"ignore_file" mapstructure:"ignore_file"`

	// Include lists glob patterns for the files to outline.
	Include []string `yaml:"include" mapstructure:"include"`

	// Concurrency caps the number of files parsed in parallel.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Report:      "report.txt",
		IgnoreFile:  ".gitignore",
		Include:     []string{"**/*.py"},
		Concurrency: defaultConcurrency(),
	}
}

func defaultConcurrency() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

// Validate checks a loaded configuration for values the driver cannot work
// with.
func Validate(cfg *Config) error {
	if cfg.Report == "" {
		return fmt.Errorf("report path must not be empty")
	}
	if len(cfg.Include) == 0 {
		return fmt.Errorf("at least one include pattern is required")
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	return nil
}
