package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const debugLevel = "debug"

// isolatedLoader returns a loader on a fresh viper instance so tests do not
// share state through the global one.
func isolatedLoader() *Loader {
	return NewLoaderWith(viper.New())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kielabel.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

// TestNewLoader tests loader creation.
func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if loader.v != viper.GetViper() {
		t.Error("NewLoader() should use the global viper instance")
	}
}

// TestLoadWithNoConfigFile tests loading with no config file present.
func TestLoadWithNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := isolatedLoader().Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got %s", cfg.LogLevel)
	}
	if cfg.Assign.RowOverlap != DefaultConfig().Assign.RowOverlap {
		t.Errorf("Expected default row overlap, got %v", cfg.Assign.RowOverlap)
	}
	if len(cfg.Check.AllowedKeys) != 20 {
		t.Errorf("Expected 20 default allowed keys, got %d", len(cfg.Check.AllowedKeys))
	}
}

// TestLoadFromSearchPath finds kielabel.yaml in the working directory.
func TestLoadFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "kielabel.yaml"), []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := isolatedLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log level 'warn', got %s", cfg.LogLevel)
	}
	if !strings.HasSuffix(loader.GetConfigFileUsed(), "kielabel.yaml") {
		t.Errorf("Unexpected config file used: %s", loader.GetConfigFileUsed())
	}
}

// TestLoadWithValidYAMLFile tests loading from a valid YAML file.
func TestLoadWithValidYAMLFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
verbose: true
assign:
  min_x_gap: 8
  row_overlap: 0.6
  catalogue: /etc/kielabel/fields.yaml
check:
  allowed_keys: [vc_no, vc_vin]
  lang: en
placeholder:
  replacement: "/"
orient:
  jpeg_quality: 90
overlay:
  box_color: "#00FF00"
`)

	cfg, err := isolatedLoader().LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}
	if cfg.LogLevel != debugLevel {
		t.Errorf("Expected log level '%s', got %s", debugLevel, cfg.LogLevel)
	}
	if !cfg.Verbose {
		t.Error("Expected verbose to be true")
	}
	if cfg.Assign.MinXGap != 8 || cfg.Assign.RowOverlap != 0.6 {
		t.Errorf("Unexpected assign thresholds: %v, %v", cfg.Assign.MinXGap, cfg.Assign.RowOverlap)
	}
	if cfg.Assign.Catalogue != "/etc/kielabel/fields.yaml" {
		t.Errorf("Unexpected catalogue: %s", cfg.Assign.Catalogue)
	}
	if len(cfg.Check.AllowedKeys) != 2 || cfg.Check.AllowedKeys[1] != "vc_vin" {
		t.Errorf("Unexpected allowed keys: %v", cfg.Check.AllowedKeys)
	}
	if cfg.Check.Lang != "en" {
		t.Errorf("Expected lang 'en', got %s", cfg.Check.Lang)
	}
	if cfg.Placeholder.Replacement != "/" {
		t.Errorf("Expected replacement '/', got %s", cfg.Placeholder.Replacement)
	}
	if cfg.Orient.JPEGQuality != 90 {
		t.Errorf("Expected quality 90, got %d", cfg.Orient.JPEGQuality)
	}
	if cfg.Overlay.BoxColor != "#00FF00" {
		t.Errorf("Expected box color #00FF00, got %s", cfg.Overlay.BoxColor)
	}
	// Untouched sections keep their defaults.
	if cfg.Filter.LabelFile != "Label.txt" {
		t.Errorf("Expected default label file, got %s", cfg.Filter.LabelFile)
	}
}

// TestLoadWithInvalidYAMLFile tests loading from an invalid YAML file.
func TestLoadWithInvalidYAMLFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
  invalid indentation
    more bad indentation
`)

	if _, err := isolatedLoader().LoadWithFile(path); err == nil {
		t.Error("LoadWithFile() expected error for invalid YAML, got nil")
	}
}

// TestLoadWithNonExistentFile tests loading from a non-existent file.
func TestLoadWithNonExistentFile(t *testing.T) {
	_, err := isolatedLoader().LoadWithFile("/nonexistent/path/to/kielabel.yaml")
	if err == nil {
		t.Fatal("LoadWithFile() expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestLoadWithValidationFailure tests loading with validation failure.
func TestLoadWithValidationFailure(t *testing.T) {
	path := writeConfig(t, "assign:\n  row_overlap: 2.5\n")

	_, err := isolatedLoader().LoadWithFile(path)
	if err == nil {
		t.Fatal("LoadWithFile() expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestLoadWithoutValidation returns invalid values unchecked.
func TestLoadWithoutValidation(t *testing.T) {
	path := writeConfig(t, "log_level: loud\n")

	cfg, err := isolatedLoader().LoadWithFileWithoutValidation(path)
	if err != nil {
		t.Fatalf("LoadWithFileWithoutValidation() unexpected error: %v", err)
	}
	if cfg.LogLevel != "loud" {
		t.Errorf("Expected log level 'loud', got %s", cfg.LogLevel)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for log level 'loud'")
	}
}

// TestLoadWithEmptyFileName falls back to the search paths.
func TestLoadWithEmptyFileName(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := isolatedLoader().LoadWithFile("")
	if err != nil {
		t.Fatalf("LoadWithFile(\"\") unexpected error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level, got %s", cfg.LogLevel)
	}
}

// TestLoadWithEmptyConfigFile treats an empty file as all defaults.
func TestLoadWithEmptyConfigFile(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := isolatedLoader().LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}
	if cfg.Orient.JPEGQuality != 95 {
		t.Errorf("Expected default quality 95, got %d", cfg.Orient.JPEGQuality)
	}
}

// TestEnvironmentVariableOverride tests that KIELABEL_ variables win over defaults.
func TestEnvironmentVariableOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("KIELABEL_LOG_LEVEL", "debug")
	t.Setenv("KIELABEL_VERBOSE", "true")
	t.Setenv("KIELABEL_ASSIGN_MIN_X_GAP", "12.5")
	t.Setenv("KIELABEL_ORIENT_JPEG_QUALITY", "70")
	t.Setenv("KIELABEL_CHECK_LANG", "en")

	cfg, err := isolatedLoader().Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != debugLevel {
		t.Errorf("Expected log level 'debug' from env, got %s", cfg.LogLevel)
	}
	if !cfg.Verbose {
		t.Error("Expected verbose true from env")
	}
	if cfg.Assign.MinXGap != 12.5 {
		t.Errorf("Expected min x gap 12.5 from env, got %v", cfg.Assign.MinXGap)
	}
	if cfg.Orient.JPEGQuality != 70 {
		t.Errorf("Expected quality 70 from env, got %d", cfg.Orient.JPEGQuality)
	}
	if cfg.Check.Lang != "en" {
		t.Errorf("Expected lang 'en' from env, got %s", cfg.Check.Lang)
	}
}

// TestEnvironmentVariableBeatsFile tests precedence of env over file values.
func TestEnvironmentVariableBeatsFile(t *testing.T) {
	path := writeConfig(t, "assign:\n  row_overlap: 0.3\n")
	t.Setenv("KIELABEL_ASSIGN_ROW_OVERLAP", "0.7")

	cfg, err := isolatedLoader().LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}
	if cfg.Assign.RowOverlap != 0.7 {
		t.Errorf("Expected row overlap 0.7 from env, got %v", cfg.Assign.RowOverlap)
	}
}

// TestGetSetConfigValues tests Get, GetString and Set.
func TestGetSetConfigValues(t *testing.T) {
	loader := isolatedLoader()
	loader.Set("check.lang", "en")

	if loader.GetString("check.lang") != "en" {
		t.Errorf("Expected 'en', got %s", loader.GetString("check.lang"))
	}
	if loader.Get("check.lang") != "en" {
		t.Errorf("Expected 'en', got %v", loader.Get("check.lang"))
	}
}

// TestSetOverridesFile tests that explicit Set values (flag bindings) win.
func TestSetOverridesFile(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")
	loader := isolatedLoader()
	loader.Set("log_level", "error")

	cfg, err := loader.LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("Expected log level 'error', got %s", cfg.LogLevel)
	}
}

// TestGetResolvedConfig tests the settings dump.
func TestGetResolvedConfig(t *testing.T) {
	loader := isolatedLoader()
	loader.setDefaults()

	settings := loader.GetResolvedConfig()
	for _, section := range []string{"assign", "check", "filter", "placeholder", "orient", "overlay"} {
		if _, ok := settings[section]; !ok {
			t.Errorf("Expected section %q in resolved config", section)
		}
	}
}

// TestGenerateDefaultConfigFile writes a loadable default file.
func TestGenerateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.yaml")

	if err := GenerateDefaultConfigFile(path); err != nil {
		t.Fatalf("GenerateDefaultConfigFile() unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read generated file: %v", err)
	}
	if !strings.Contains(string(data), "row_overlap") {
		t.Errorf("Generated file misses row_overlap:\n%s", data)
	}

	cfg, err := isolatedLoader().LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile(generated) unexpected error: %v", err)
	}
	if cfg.Orient.JPEGQuality != 95 {
		t.Errorf("Expected quality 95, got %d", cfg.Orient.JPEGQuality)
	}
}

// TestGenerateDefaultConfigFileWithEmptyFilename writes kielabel.yaml.
func TestGenerateDefaultConfigFileWithEmptyFilename(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := GenerateDefaultConfigFile(""); err != nil {
		t.Fatalf("GenerateDefaultConfigFile(\"\") unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "kielabel.yaml")); err != nil {
		t.Errorf("Expected kielabel.yaml to be created: %v", err)
	}
}

// TestGetConfigSearchPaths tests the search path order.
func TestGetConfigSearchPaths(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	paths := GetConfigSearchPaths()
	want := []string{".", home, filepath.Join(xdg, "kielabel"), "/etc/kielabel"}

	if len(paths) != len(want) {
		t.Fatalf("Expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

// TestGetConfigSearchPathsWithoutXDG falls back to ~/.config.
func TestGetConfigSearchPathsWithoutXDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	_ = os.Unsetenv("XDG_CONFIG_HOME")

	paths := GetConfigSearchPaths()
	found := false
	for _, p := range paths {
		if p == filepath.Join(home, ".config", "kielabel") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected ~/.config/kielabel in %v", paths)
	}
}

// TestPrintConfigInfo tests the debug output.
func TestPrintConfigInfo(t *testing.T) {
	var buf bytes.Buffer
	isolatedLoader().PrintConfigInfo(&buf)

	out := buf.String()
	if !strings.Contains(out, "Environment prefix: KIELABEL") {
		t.Errorf("Unexpected output: %s", out)
	}
	if !strings.Contains(out, "Configuration search paths:") {
		t.Errorf("Unexpected output: %s", out)
	}
}
