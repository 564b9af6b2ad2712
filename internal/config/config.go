// Package config loads and validates sweep benchmark configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SweepConfig describes one benchmark experiment: how high to sweep,
// how many independent samples to take, and what workload to drive.
type SweepConfig struct {
	// MaxConcurrency is the concurrency ceiling; levels 1..MaxConcurrency
	// are measured in each sweep.
	MaxConcurrency int `yaml:"maxConcurrency" json:"maxConcurrency"`

	// SampleSize is the number of independent sweeps to run.
	SampleSize int `yaml:"sampleSize" json:"sampleSize"`

	// Workload selects the workload intensity profile.
	Workload string `yaml:"workload" json:"workload"`

	// TestSubjectSize is the number of synthetic test cases per run.
	TestSubjectSize int `yaml:"testSubjectSize" json:"testSubjectSize"`

	// FailureRate injects synthetic test failures for exercising the
	// degraded-run path. Zero disables injection.
	FailureRate float64 `yaml:"failureRate,omitempty" json:"failureRate,omitempty"`

	// OutputDir is where samples and analyses are persisted.
	OutputDir string `yaml:"outputDir" json:"outputDir"`

	// StartupTimeout bounds subject readiness, e.g. "30s".
	StartupTimeout string `yaml:"startupTimeout,omitempty" json:"startupTimeout,omitempty"`

	// KeepPartial controls whether aborted sweeps are persisted as
	// short samples. Defaults to true.
	KeepPartial *bool `yaml:"keepPartial,omitempty" json:"keepPartial,omitempty"`
}

// Load reads a SweepConfig from a YAML file and applies defaults.
func Load(path string) (*SweepConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg SweepConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the default configuration.
func Default() *SweepConfig {
	cfg := &SweepConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with defaults.
func (c *SweepConfig) ApplyDefaults() {
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = 8
	}
	if c.SampleSize == 0 {
		c.SampleSize = 5
	}
	if c.Workload == "" {
		c.Workload = "medium"
	}
	if c.TestSubjectSize == 0 {
		c.TestSubjectSize = 50
	}
	if c.OutputDir == "" {
		c.OutputDir = "sweepbench-results"
	}
	if c.StartupTimeout == "" {
		c.StartupTimeout = "30s"
	}
	if c.KeepPartial == nil {
		keep := true
		c.KeepPartial = &keep
	}
}

// Validate checks the configuration for consistency.
func (c *SweepConfig) Validate() error {
	if c.MaxConcurrency < 1 {
		return &ValidationError{Field: "maxConcurrency", Message: "must be >= 1"}
	}
	if c.MaxConcurrency > 1024 {
		return &ValidationError{Field: "maxConcurrency", Message: "cannot exceed 1024"}
	}
	if c.SampleSize < 1 {
		return &ValidationError{Field: "sampleSize", Message: "must be >= 1"}
	}
	if c.TestSubjectSize < 1 {
		return &ValidationError{Field: "testSubjectSize", Message: "must be >= 1"}
	}
	if c.FailureRate < 0 || c.FailureRate >= 1 {
		return &ValidationError{Field: "failureRate", Message: "must be in [0, 1)"}
	}
	if _, err := time.ParseDuration(c.StartupTimeout); err != nil {
		return &ValidationError{Field: "startupTimeout", Message: fmt.Sprintf("invalid duration %q", c.StartupTimeout)}
	}
	return nil
}

// ParsedStartupTimeout returns StartupTimeout as a time.Duration.
// Validate must have accepted the config first.
func (c *SweepConfig) ParsedStartupTimeout() time.Duration {
	d, err := time.ParseDuration(c.StartupTimeout)
	if err != nil {
		return 0
	}
	return d
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}
