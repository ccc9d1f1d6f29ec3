package support

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// isolatedEnv lists the variables a scenario overrides so that no config
// file or KIELABEL_ setting from the host leaks into it.
var isolatedEnv = []string{"HOME", "XDG_CONFIG_HOME"}

// TestContext holds the state for integration tests.
type TestContext struct {
	// Command execution state
	LastCommand  string
	LastOutput   string
	LastStderr   string
	LastError    error
	LastDuration time.Duration

	// Test environment
	TempDir  string
	savedEnv map[string]*string
}

// NewTestContext creates a new test context with its own scratch directory.
func NewTestContext() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "kielabel-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	ctx := &TestContext{
		TempDir:  tempDir,
		savedEnv: map[string]*string{},
	}

	home := filepath.Join(tempDir, ".home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	for _, name := range isolatedEnv {
		ctx.setEnv(name, home)
	}
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "KIELABEL_") {
			ctx.unsetEnv(name)
		}
	}

	return ctx, nil
}

// Cleanup restores the environment and removes the scratch directory.
func (testCtx *TestContext) Cleanup() error {
	for name, value := range testCtx.savedEnv {
		if value == nil {
			_ = os.Unsetenv(name)
		} else {
			_ = os.Setenv(name, *value)
		}
	}
	testCtx.savedEnv = map[string]*string{}

	if err := os.RemoveAll(testCtx.TempDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp directory %s: %w", testCtx.TempDir, err)
	}
	return nil
}

// Path resolves a scenario-relative file name inside the scratch directory.
func (testCtx *TestContext) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(testCtx.TempDir, filepath.FromSlash(name))
}

// substituteCommandVariables expands $TMP to the scratch directory.
func (testCtx *TestContext) substituteCommandVariables(command string) string {
	return strings.ReplaceAll(command, "$TMP", testCtx.TempDir)
}

func (testCtx *TestContext) setEnv(name, value string) {
	testCtx.remember(name)
	_ = os.Setenv(name, value)
}

func (testCtx *TestContext) unsetEnv(name string) {
	testCtx.remember(name)
	_ = os.Unsetenv(name)
}

func (testCtx *TestContext) remember(name string) {
	if _, seen := testCtx.savedEnv[name]; seen {
		return
	}
	if old, ok := os.LookupEnv(name); ok {
		testCtx.savedEnv[name] = &old
	} else {
		testCtx.savedEnv[name] = nil
	}
}
