package support

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/kielabel/cmd/kielabel/cmd"
	"github.com/cucumber/godog"
)

// iRunCommand executes a kielabel command line in-process on a fresh
// command tree. stdout and stderr are captured separately.
func (testCtx *TestContext) iRunCommand(command string) error {
	command = testCtx.substituteCommandVariables(command)
	testCtx.LastCommand = command

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	if parts[0] != "kielabel" {
		return fmt.Errorf("unsupported program %q", parts[0])
	}

	root := cmd.NewRootCommand()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(parts[1:])

	start := time.Now()
	testCtx.LastError = root.Execute()
	testCtx.LastDuration = time.Since(start)
	testCtx.LastOutput = stdout.String()
	testCtx.LastStderr = stderr.String()

	return nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastError != nil {
		return fmt.Errorf("command failed: %w\nOutput: %s\nStderr: %s",
			testCtx.LastError, testCtx.LastOutput, testCtx.LastStderr)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastError == nil {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains specific text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	expectedText = testCtx.substituteCommandVariables(expectedText)
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldNotContain(text string) error {
	if strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output unexpectedly contains '%s'\nActual output: %s", text, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldBe compares the whole output; the doc string is
// written with "\t" for the TAB separator.
func (testCtx *TestContext) theOutputShouldBe(expected *godog.DocString) error {
	want := strings.ReplaceAll(expected.Content, `\t`, "\t") + "\n"
	if testCtx.LastOutput != want {
		return fmt.Errorf("output mismatch\nExpected: %q\nActual:   %q", want, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldBeValidJSON verifies the output is a single JSON document.
func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(testCtx.LastOutput)), &v); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nOutput: %s", err, testCtx.LastOutput)
	}
	return nil
}

// theLogsShouldContain checks the structured log stream on stderr.
func (testCtx *TestContext) theLogsShouldContain(text string) error {
	if !strings.Contains(testCtx.LastStderr, text) {
		return fmt.Errorf("logs do not contain '%s'\nActual logs: %s", text, testCtx.LastStderr)
	}
	return nil
}

// theErrorShouldMention verifies the error message contains specific text.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastError == nil {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}

	fullErrorText := testCtx.LastError.Error() + " " + testCtx.LastStderr
	if !strings.Contains(strings.ToLower(fullErrorText), strings.ToLower(errorText)) {
		return fmt.Errorf("error does not contain '%s'\nActual error: %s", errorText, fullErrorText)
	}
	return nil
}

// theFileShouldExist verifies a file exists.
func (testCtx *TestContext) theFileShouldExist(filename string) error {
	fullPath := testCtx.Path(filename)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", fullPath)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldNotExist(filename string) error {
	fullPath := testCtx.Path(filename)
	if _, err := os.Stat(fullPath); err == nil {
		return fmt.Errorf("file exists: %s", fullPath)
	}
	return nil
}

func (testCtx *TestContext) readFile(filename string) (string, error) {
	if err := testCtx.theFileShouldExist(filename); err != nil {
		return "", err
	}
	content, err := os.ReadFile(testCtx.Path(filename)) //nolint:gosec // G304: Test file reading with controlled path
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(content), nil
}

// theFileShouldContain verifies a file contains specific content.
func (testCtx *TestContext) theFileShouldContain(filename, expectedContent string) error {
	content, err := testCtx.readFile(filename)
	if err != nil {
		return err
	}
	if !strings.Contains(content, expectedContent) {
		return fmt.Errorf("file %s does not contain '%s'\nActual content: %s",
			filename, expectedContent, content)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldNotContain(filename, text string) error {
	content, err := testCtx.readFile(filename)
	if err != nil {
		return err
	}
	if strings.Contains(content, text) {
		return fmt.Errorf("file %s unexpectedly contains '%s'\nActual content: %s", filename, text, content)
	}
	return nil
}

// theFileShouldHaveLines counts non-empty lines.
func (testCtx *TestContext) theFileShouldHaveLines(filename string, want int) error {
	content, err := testCtx.readFile(filename)
	if err != nil {
		return err
	}
	got := 0
	for _, l := range strings.Split(content, "\n") {
		if l != "" {
			got++
		}
	}
	if got != want {
		return fmt.Errorf("file %s has %d lines, want %d\nActual content: %s", filename, got, want, content)
	}
	return nil
}

// aFileContaining writes a plain text file into the scratch directory.
func (testCtx *TestContext) aFileContaining(filename string, content *godog.DocString) error {
	path := testCtx.Path(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content.Content+"\n"), 0o600)
}

// theEnvironmentVariableIsSetTo sets a variable for the rest of the scenario.
func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.setEnv(name, testCtx.substituteCommandVariables(value))
	return nil
}

// RegisterCommonSteps registers command, output and file step definitions.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	testCtx.registerCommandSteps(sc)
	testCtx.registerOutputSteps(sc)
	testCtx.registerErrorSteps(sc)
	testCtx.registerFileSteps(sc)
}

func (testCtx *TestContext) registerCommandSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)
}

func (testCtx *TestContext) registerOutputSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the output should be:$`, testCtx.theOutputShouldBe)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the logs should contain "([^"]*)"$`, testCtx.theLogsShouldContain)
}

func (testCtx *TestContext) registerErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
}

func (testCtx *TestContext) registerFileSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a file "([^"]*)" containing:$`, testCtx.aFileContaining)
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should not exist$`, testCtx.theFileShouldNotExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
	sc.Step(`^the file "([^"]*)" should not contain "([^"]*)"$`, testCtx.theFileShouldNotContain)
	sc.Step(`^the file "([^"]*)" should have (\d+) lines?$`, testCtx.theFileShouldHaveLines)
}
