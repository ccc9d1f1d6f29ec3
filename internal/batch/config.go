package batch

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/MeKo-Tech/kielabel/internal/kie"
)

const (
	// DefaultLabelFile is the PPOCRLabel annotation file name.
	DefaultLabelFile = "Label.txt"
	// DefaultOutputName is written next to each input when no output is given.
	DefaultOutputName = "Label.kie.txt"
)

// Config holds all configuration for an assignment run.
type Config struct {
	// Assignment settings
	Catalogue  string
	MinXGap    float64
	RowOverlap float64

	// Output settings
	OutputFile  string
	Format      string
	ReportFile  string
	MetricsFile string

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Progress settings
	Quiet     bool
	ShowStats bool
}

// DefaultConfig returns a Config with the standard thresholds.
func DefaultConfig() *Config {
	return &Config{
		MinXGap:         kie.DefaultMinXGap,
		RowOverlap:      kie.DefaultRowOverlap,
		Format:          "text",
		Recursive:       true,
		IncludePatterns: []string{DefaultLabelFile},
		ShowStats:       true,
	}
}

// ResolveOptions converts the thresholds for the resolver.
func (c *Config) ResolveOptions() kie.ResolveOptions {
	return kie.ResolveOptions{MinXGap: c.MinXGap, RowOverlapRatio: c.RowOverlap}
}

// Validate checks the thresholds and report format.
func (c *Config) Validate() error {
	if c.MinXGap < 0 {
		return fmt.Errorf("min x gap must be non-negative, got %v", c.MinXGap)
	}
	if c.RowOverlap < 0 || c.RowOverlap > 1 {
		return fmt.Errorf("row overlap must be between 0 and 1, got %v", c.RowOverlap)
	}
	switch c.Format {
	case "", "text", "json", "csv":
	default:
		return fmt.Errorf("invalid report format %q (text, json, csv)", c.Format)
	}
	return nil
}

// OutputPathFor returns where the enriched copy of input is written.
func (c *Config) OutputPathFor(input string) string {
	if c.OutputFile != "" {
		return c.OutputFile
	}
	return filepath.Join(filepath.Dir(input), DefaultOutputName)
}

var errOutputForMany = errors.New("an explicit output file needs exactly one input")
