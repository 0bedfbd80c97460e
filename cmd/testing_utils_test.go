package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/spps/internal/configs"
)

// setupTestEnvironment points the home and config directories at a temp dir
// so every command works on a throwaway key record. It returns the home dir.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("AppData", filepath.Join(home, "AppData"))
	t.Setenv(configs.SettingsEnvVar, "")
	t.Setenv("NO_COLOR", "1")

	ResetGlobalState()
	t.Cleanup(ResetGlobalState)

	return home
}

// settingsPath returns the default key record location under home.
func settingsPath(home string) string {
	return filepath.Join(home, configs.SppsDirName, configs.SettingsFileName)
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

// createTestCLI creates a fresh root command with the spps commands attached.
func createTestCLI(stdin string, args ...string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spps",
		Short: "spps - Simple Password Protection Solution",
	}
	Register(rootCmd)

	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	return rootCmd
}

// runCLI executes the given arguments and returns the combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithStdin(t, "", args...)
}

func runCLIWithStdin(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	ResetGlobalState()
	return captureOutput(func() error {
		return createTestCLI(stdin, args...).Execute()
	})
}

// initializeKey runs spps init and fails the test if it does not succeed.
func initializeKey(t *testing.T, args ...string) {
	t.Helper()
	output, err := runCLI(t, append([]string{"init"}, args...)...)
	if err != nil {
		t.Fatalf("Failed to initialize key: %v\nOutput: %s", err, output)
	}
}

// encryptValue runs spps encrypt and returns the envelope it printed.
func encryptValue(t *testing.T, value string) string {
	t.Helper()
	output, err := runCLI(t, "encrypt", value)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v\nOutput: %s", err, output)
	}
	return strings.TrimSpace(output)
}
