package config

import (
	"fmt"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Output formats understood by the CLI
const (
	FormatJSON    = "json"
	FormatSummary = "summary"
)

// Config holds all calculator configuration
type Config struct {
	GreenWeb   GreenWebConfig   `yaml:"greenWeb"`
	Lighthouse LighthouseConfig `yaml:"lighthouse"`
	Output     OutputConfig     `yaml:"output"`
}

// GreenWebConfig locates the green hosting dataset
type GreenWebConfig struct {
	// SQLite export of the Green Web Foundation dataset
	DatasetPath string `yaml:"datasetPath"`
}

// LighthouseConfig holds page analyzer settings
type LighthouseConfig struct {
	// Executable to run; looked up in PATH when it has no directory part
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format      string `yaml:"format"`
	Diagnostics bool   `yaml:"diagnostics"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Lighthouse: LighthouseConfig{
			Path:    "lighthouse",
			Timeout: 2 * time.Minute,
		},
		Output: OutputConfig{
			Format: FormatJSON,
		},
	}
}

// Validate reports every problem in the configuration at once
func (c *Config) Validate() error {
	var errs []error

	if c.GreenWeb.DatasetPath == "" {
		errs = append(errs, fmt.Errorf("green web dataset path is required"))
	}

	if c.Lighthouse.Timeout < 0 {
		errs = append(errs, fmt.Errorf("lighthouse timeout must be non-negative, got %s", c.Lighthouse.Timeout))
	}

	switch c.Output.Format {
	case FormatJSON, FormatSummary:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q, expected %s or %s", c.Output.Format, FormatJSON, FormatSummary))
	}

	return utilerrors.NewAggregate(errs)
}
