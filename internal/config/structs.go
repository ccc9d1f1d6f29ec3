//nolint:lll
package config

// Config represents the complete configuration for kielabel.
// It includes settings for all commands (assign, check, filter, fix, orient, overlay)
// and supports loading from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Field assignment (assign command)
	Assign AssignConfig `mapstructure:"assign" yaml:"assign" json:"assign"`

	// Annotation validation (check command)
	Check CheckConfig `mapstructure:"check" yaml:"check" json:"check"`

	// Key filtering (filter command)
	Filter FilterConfig `mapstructure:"filter" yaml:"filter" json:"filter"`

	// Placeholder normalization (fix-placeholder command)
	Placeholder PlaceholderConfig `mapstructure:"placeholder" yaml:"placeholder" json:"placeholder"`

	// EXIF orientation (orient command)
	Orient OrientConfig `mapstructure:"orient" yaml:"orient" json:"orient"`

	// Review images (overlay command)
	Overlay OverlayConfig `mapstructure:"overlay" yaml:"overlay" json:"overlay"`
}

// AssignConfig contains field assignment settings.
type AssignConfig struct {
	MinXGap     float64  `mapstructure:"min_x_gap" yaml:"min_x_gap" json:"min_x_gap"`
	RowOverlap  float64  `mapstructure:"row_overlap" yaml:"row_overlap" json:"row_overlap"`
	Catalogue   string   `mapstructure:"catalogue" yaml:"catalogue" json:"catalogue"`
	Output      string   `mapstructure:"output" yaml:"output" json:"output"`
	MetricsFile string   `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
	Format      string   `mapstructure:"format" yaml:"format" json:"format"`
	Recursive   bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	Include     []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude     []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// CheckConfig contains annotation validation settings.
type CheckConfig struct {
	AllowedKeys       []string `mapstructure:"allowed_keys" yaml:"allowed_keys" json:"allowed_keys"`
	UnrecognizedTexts []string `mapstructure:"unrecognized_texts" yaml:"unrecognized_texts" json:"unrecognized_texts"`
	AllowNone         bool     `mapstructure:"allow_none" yaml:"allow_none" json:"allow_none"`
	Lang              string   `mapstructure:"lang" yaml:"lang" json:"lang"`
}

// FilterConfig contains key filtering settings.
type FilterConfig struct {
	KeepKeys  []string `mapstructure:"keep_keys" yaml:"keep_keys" json:"keep_keys"`
	LabelFile string   `mapstructure:"label_file" yaml:"label_file" json:"label_file"`
	CacheFile string   `mapstructure:"cache_file" yaml:"cache_file" json:"cache_file"`
}

// PlaceholderConfig contains dash placeholder settings.
type PlaceholderConfig struct {
	TargetKeys  []string `mapstructure:"target_keys" yaml:"target_keys" json:"target_keys"`
	Glyphs      []string `mapstructure:"glyphs" yaml:"glyphs" json:"glyphs"`
	Replacement string   `mapstructure:"replacement" yaml:"replacement" json:"replacement"`
}

// OrientConfig contains EXIF orientation settings.
type OrientConfig struct {
	Extensions  []string `mapstructure:"extensions" yaml:"extensions" json:"extensions"`
	JPEGQuality int      `mapstructure:"jpeg_quality" yaml:"jpeg_quality" json:"jpeg_quality"`
	Recursive   bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
}

// OverlayConfig contains review image settings.
type OverlayConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	ImageRoot string `mapstructure:"image_root" yaml:"image_root" json:"image_root"`
	BoxColor  string `mapstructure:"box_color" yaml:"box_color" json:"box_color"`
	FontColor string `mapstructure:"font_color" yaml:"font_color" json:"font_color"`
	Thickness int    `mapstructure:"thickness" yaml:"thickness" json:"thickness"`
}
