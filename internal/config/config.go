package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/kielabel/internal/batch"
	"github.com/MeKo-Tech/kielabel/internal/check"
	"github.com/MeKo-Tech/kielabel/internal/filter"
	"github.com/MeKo-Tech/kielabel/internal/fix"
	"github.com/MeKo-Tech/kielabel/internal/orient"
	"github.com/MeKo-Tech/kielabel/internal/overlay"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	assign := batch.DefaultConfig()
	placeholder := fix.DefaultPlaceholderOptions()
	filterOpts := filter.DefaultOptions()
	orientOpts := orient.DefaultOptions()

	return Config{
		LogLevel: "info",
		Verbose:  false,
		Assign: AssignConfig{
			MinXGap:    assign.MinXGap,
			RowOverlap: assign.RowOverlap,
			Format:     assign.Format,
			Recursive:  assign.Recursive,
			Include:    assign.IncludePatterns,
			Exclude:    []string{},
		},
		Check: CheckConfig{
			AllowedKeys:       append([]string(nil), check.DefaultAllowedKeys...),
			UnrecognizedTexts: append([]string(nil), check.DefaultUnrecognizedTexts...),
			AllowNone:         false,
			Lang:              "zh",
		},
		Filter: FilterConfig{
			KeepKeys:  filterOpts.KeepKeys,
			LabelFile: filterOpts.LabelFile,
			CacheFile: filterOpts.CacheFile,
		},
		Placeholder: PlaceholderConfig{
			TargetKeys:  placeholder.TargetKeys,
			Glyphs:      placeholder.Glyphs,
			Replacement: placeholder.Replacement,
		},
		Orient: OrientConfig{
			Extensions:  orientOpts.Extensions,
			JPEGQuality: orientOpts.JPEGQuality,
			Recursive:   orientOpts.Recursive,
		},
		Overlay: OverlayConfig{
			OutputDir: overlay.DefaultOptions().OutputDir,
			BoxColor:  "#FF0000",
			FontColor: "#0000FF",
			Thickness: overlay.DefaultOptions().Thickness,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "csv"}
	if c.Assign.Format != "" && !contains(validFormats, c.Assign.Format) {
		return fmt.Errorf("invalid assign format: %s (must be one of: %s)", c.Assign.Format, strings.Join(validFormats, ", "))
	}
	if err := validateThreshold(c.Assign.RowOverlap, "assign.row_overlap"); err != nil {
		return err
	}
	if c.Assign.MinXGap < 0 {
		return fmt.Errorf("invalid assign.min_x_gap: %.2f (must not be negative)", c.Assign.MinXGap)
	}

	if len(c.Check.AllowedKeys) == 0 {
		return errors.New("check.allowed_keys must not be empty")
	}
	validLangs := []string{"zh", "en"}
	if !contains(validLangs, c.Check.Lang) {
		return fmt.Errorf("invalid check.lang: %s (must be one of: %s)", c.Check.Lang, strings.Join(validLangs, ", "))
	}

	if len(c.Filter.KeepKeys) == 0 {
		return errors.New("filter.keep_keys must not be empty")
	}
	if c.Filter.LabelFile == "" {
		return errors.New("filter.label_file must not be empty")
	}

	if len(c.Placeholder.TargetKeys) == 0 {
		return errors.New("placeholder.target_keys must not be empty")
	}
	if len(c.Placeholder.Glyphs) == 0 {
		return errors.New("placeholder.glyphs must not be empty")
	}

	if c.Orient.JPEGQuality < 1 || c.Orient.JPEGQuality > 100 {
		return fmt.Errorf("invalid orient.jpeg_quality: %d (must be between 1 and 100)", c.Orient.JPEGQuality)
	}
	if len(c.Orient.Extensions) == 0 {
		return errors.New("orient.extensions must not be empty")
	}

	if _, err := overlay.ParseHexColor(c.Overlay.BoxColor); err != nil {
		return fmt.Errorf("overlay.box_color: %w", err)
	}
	if _, err := overlay.ParseHexColor(c.Overlay.FontColor); err != nil {
		return fmt.Errorf("overlay.font_color: %w", err)
	}
	if c.Overlay.Thickness <= 0 {
		return fmt.Errorf("invalid overlay.thickness: %d (must be positive)", c.Overlay.Thickness)
	}

	return nil
}

// ToBatchConfig converts the assign section to the batch configuration format.
func (c *Config) ToBatchConfig() *batch.Config {
	cfg := batch.DefaultConfig()
	cfg.Catalogue = c.Assign.Catalogue
	cfg.MinXGap = c.Assign.MinXGap
	cfg.RowOverlap = c.Assign.RowOverlap
	cfg.OutputFile = c.Assign.Output
	cfg.MetricsFile = c.Assign.MetricsFile
	cfg.Recursive = c.Assign.Recursive
	if c.Assign.Format != "" {
		cfg.Format = c.Assign.Format
	}
	if len(c.Assign.Include) > 0 {
		cfg.IncludePatterns = append([]string(nil), c.Assign.Include...)
	}
	cfg.ExcludePatterns = append([]string(nil), c.Assign.Exclude...)
	return cfg
}

// ToCheckOptions converts the check section to validator options.
func (c *Config) ToCheckOptions() check.Options {
	return check.Options{
		AllowedKeys:       append([]string(nil), c.Check.AllowedKeys...),
		UnrecognizedTexts: append([]string(nil), c.Check.UnrecognizedTexts...),
		AllowNone:         c.Check.AllowNone,
	}
}

// ToFilterOptions converts the filter section to filter options.
func (c *Config) ToFilterOptions() filter.Options {
	return filter.Options{
		KeepKeys:  append([]string(nil), c.Filter.KeepKeys...),
		LabelFile: c.Filter.LabelFile,
		CacheFile: c.Filter.CacheFile,
	}
}

// ToPlaceholderOptions converts the placeholder section to fixer options.
func (c *Config) ToPlaceholderOptions() fix.PlaceholderOptions {
	return fix.PlaceholderOptions{
		TargetKeys:  append([]string(nil), c.Placeholder.TargetKeys...),
		Glyphs:      append([]string(nil), c.Placeholder.Glyphs...),
		Replacement: c.Placeholder.Replacement,
	}
}

// ToOrientOptions converts the orient section to orientation options.
func (c *Config) ToOrientOptions() orient.Options {
	return orient.Options{
		Extensions:  append([]string(nil), c.Orient.Extensions...),
		JPEGQuality: c.Orient.JPEGQuality,
		Recursive:   c.Orient.Recursive,
	}
}

// ToOverlayOptions converts the overlay section to rendering options.
func (c *Config) ToOverlayOptions() (overlay.Options, error) {
	opts := overlay.DefaultOptions()
	opts.OutputDir = c.Overlay.OutputDir
	opts.ImageRoot = c.Overlay.ImageRoot
	if c.Overlay.Thickness > 0 {
		opts.Thickness = c.Overlay.Thickness
	}

	box, err := overlay.ParseHexColor(c.Overlay.BoxColor)
	if err != nil {
		return opts, fmt.Errorf("overlay.box_color: %w", err)
	}
	font, err := overlay.ParseHexColor(c.Overlay.FontColor)
	if err != nil {
		return opts, fmt.Errorf("overlay.font_color: %w", err)
	}
	opts.BoxColor = box
	opts.FontColor = font
	return opts, nil
}

// Helper functions

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validateThreshold validates that a value is between 0.0 and 1.0.
func validateThreshold(value float64, name string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("invalid %s: %.2f (must be between 0.0 and 1.0)", name, value)
	}
	return nil
}
