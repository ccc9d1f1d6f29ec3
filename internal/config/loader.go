package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "kielabel"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "KIELABEL"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance so that flag
// bindings made by the root command are visible.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWith creates a loader on v, typically a fresh viper.New().
func NewLoaderWith(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load loads configuration from files, environment variables, and defaults,
// then validates it.
func (l *Loader) Load() (*Config, error) {
	return l.load("", true)
}

// LoadWithoutValidation is Load without the validation step.
func (l *Loader) LoadWithoutValidation() (*Config, error) {
	return l.load("", false)
}

// LoadWithFile loads configuration from a specific file path. An empty path
// falls back to the search paths.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	return l.load(configFile, true)
}

// LoadWithFileWithoutValidation is LoadWithFile without the validation step.
func (l *Loader) LoadWithFileWithoutValidation(configFile string) (*Config, error) {
	return l.load(configFile, false)
}

func (l *Loader) load(configFile string, validate bool) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	}

	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		case !errors.As(err, &notFound):
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file: defaults and env vars only.
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if validate {
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return &config, nil
}

// Get returns a value from the configuration.
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// Set sets a value in the configuration.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	for _, p := range GetConfigSearchPaths() {
		l.v.AddConfigPath(p)
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	// assign.min_x_gap -> KIELABEL_ASSIGN_MIN_X_GAP
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Global settings
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	// Assign defaults
	l.v.SetDefault("assign.min_x_gap", defaults.Assign.MinXGap)
	l.v.SetDefault("assign.row_overlap", defaults.Assign.RowOverlap)
	l.v.SetDefault("assign.catalogue", defaults.Assign.Catalogue)
	l.v.SetDefault("assign.output", defaults.Assign.Output)
	l.v.SetDefault("assign.metrics_file", defaults.Assign.MetricsFile)
	l.v.SetDefault("assign.format", defaults.Assign.Format)
	l.v.SetDefault("assign.recursive", defaults.Assign.Recursive)
	l.v.SetDefault("assign.include", defaults.Assign.Include)
	l.v.SetDefault("assign.exclude", defaults.Assign.Exclude)

	// Check defaults
	l.v.SetDefault("check.allowed_keys", defaults.Check.AllowedKeys)
	l.v.SetDefault("check.unrecognized_texts", defaults.Check.UnrecognizedTexts)
	l.v.SetDefault("check.allow_none", defaults.Check.AllowNone)
	l.v.SetDefault("check.lang", defaults.Check.Lang)

	// Filter defaults
	l.v.SetDefault("filter.keep_keys", defaults.Filter.KeepKeys)
	l.v.SetDefault("filter.label_file", defaults.Filter.LabelFile)
	l.v.SetDefault("filter.cache_file", defaults.Filter.CacheFile)

	// Placeholder defaults
	l.v.SetDefault("placeholder.target_keys", defaults.Placeholder.TargetKeys)
	l.v.SetDefault("placeholder.glyphs", defaults.Placeholder.Glyphs)
	l.v.SetDefault("placeholder.replacement", defaults.Placeholder.Replacement)

	// Orient defaults
	l.v.SetDefault("orient.extensions", defaults.Orient.Extensions)
	l.v.SetDefault("orient.jpeg_quality", defaults.Orient.JPEGQuality)
	l.v.SetDefault("orient.recursive", defaults.Orient.Recursive)

	// Overlay defaults
	l.v.SetDefault("overlay.output_dir", defaults.Overlay.OutputDir)
	l.v.SetDefault("overlay.image_root", defaults.Overlay.ImageRoot)
	l.v.SetDefault("overlay.box_color", defaults.Overlay.BoxColor)
	l.v.SetDefault("overlay.font_color", defaults.Overlay.FontColor)
	l.v.SetDefault("overlay.thickness", defaults.Overlay.Thickness)
}

// GetResolvedConfig returns the current resolved configuration for debugging.
func (l *Loader) GetResolvedConfig() map[string]interface{} {
	return l.v.AllSettings()
}

// WriteConfigToFile writes the current configuration to a file.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// GenerateDefaultConfigFile writes a configuration file holding every default.
func GenerateDefaultConfigFile(filename string) error {
	loader := NewLoaderWith(viper.New())
	loader.setDefaults()

	if filename == "" {
		filename = ConfigFileName + ".yaml"
	}

	return loader.WriteConfigToFile(filename)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		paths = append(paths, home)
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, ConfigFileName))
	} else if homeErr == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigFileName))
	}

	paths = append(paths, filepath.Join("/etc", ConfigFileName))

	return paths
}

// PrintConfigInfo prints information about configuration loading for debugging.
func (l *Loader) PrintConfigInfo(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Configuration file used: %s\n", l.GetConfigFileUsed())
	_, _ = fmt.Fprintf(w, "Configuration search paths: %v\n", GetConfigSearchPaths())
	_, _ = fmt.Fprintf(w, "Environment prefix: %s\n", EnvPrefix)
}
