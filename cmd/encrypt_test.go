package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
)

var envelopePattern = regexp.MustCompile(`^\{[A-Za-z0-9+/=]+\}$`)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	setupTestEnvironment(t)
	initializeKey(t)

	envelope := encryptValue(t, "secretäöüß")
	if !envelopePattern.MatchString(envelope) {
		t.Fatalf("Unexpected envelope: %q", envelope)
	}

	output, err := runCLI(t, "decrypt", envelope)
	if err != nil {
		t.Fatalf("decrypt failed: %v\nOutput: %s", err, output)
	}
	if output != "secretäöüß\n" {
		t.Errorf("Expected plaintext only, got %q", output)
	}
}

func TestEncryptTwiceDiffers(t *testing.T) {
	setupTestEnvironment(t)
	initializeKey(t)

	if encryptValue(t, "same") == encryptValue(t, "same") {
		t.Error("Two encryptions of the same value should differ")
	}
}

func TestEncryptFromStdin(t *testing.T) {
	setupTestEnvironment(t)
	initializeKey(t)

	envelope, err := runCLIWithStdin(t, "piped secret\n", "encrypt", "--stdin")
	if err != nil {
		t.Fatalf("encrypt --stdin failed: %v\nOutput: %s", err, envelope)
	}

	output, err := runCLIWithStdin(t, envelope, "decrypt", "--stdin")
	if err != nil {
		t.Fatalf("decrypt --stdin failed: %v\nOutput: %s", err, output)
	}
	if output != "piped secret\n" {
		t.Errorf("Expected trailing newline to be dropped, got %q", output)
	}
}

func TestEncryptRequiresValue(t *testing.T) {
	setupTestEnvironment(t)
	initializeKey(t)

	output, err := runCLI(t, "encrypt")
	if !errors.Is(err, kerrors.ErrNoInput) {
		t.Errorf("Expected ErrNoInput, got %v", err)
	}
	if !strings.Contains(output, "--stdin") {
		t.Errorf("Expected hint about --stdin, got: %s", output)
	}

	_, err = runCLIWithStdin(t, "", "encrypt", "--stdin")
	if !errors.Is(err, kerrors.ErrNoInput) {
		t.Errorf("Expected ErrNoInput for empty stdin, got %v", err)
	}
}

func TestEncryptArgumentAndStdin(t *testing.T) {
	setupTestEnvironment(t)
	initializeKey(t)

	_, err := runCLIWithStdin(t, "a", "encrypt", "--stdin", "b")
	if err == nil || !IsReported(err) {
		t.Errorf("Expected reported error, got %v", err)
	}
}

func TestEncryptNotInitialized(t *testing.T) {
	home := setupTestEnvironment(t)

	output, err := runCLI(t, "encrypt", "secret")
	if !errors.Is(err, kerrors.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if !strings.Contains(output, "spps init") {
		t.Errorf("Expected init hint, got: %s", output)
	}
	if _, err := os.Stat(settingsPath(home)); !os.IsNotExist(err) {
		t.Error("encrypt must not create a key record")
	}
	if _, err := os.Stat(filepath.Dir(settingsPath(home))); !os.IsNotExist(err) {
		t.Error("encrypt must not create the settings directory before init")
	}
}

func TestEncryptWarnsOnEnvelope(t *testing.T) {
	setupTestEnvironment(t)
	initializeKey(t)

	output, err := runCLI(t, "encrypt", "{looks-encrypted}")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if !strings.Contains(output, "already looks encrypted") {
		t.Errorf("Expected warning, got: %s", output)
	}
}

func TestDecryptMalformed(t *testing.T) {
	setupTestEnvironment(t)
	initializeKey(t)

	for _, value := range []string{"plain", "{not base64!}", "{AAAA}"} {
		output, err := runCLI(t, "decrypt", value)
		if !errors.Is(err, kerrors.ErrMalformedEnvelope) {
			t.Errorf("decrypt %q: expected ErrMalformedEnvelope, got %v", value, err)
		}
		if !strings.Contains(output, "not an encrypted value") {
			t.Errorf("decrypt %q: unexpected output %s", value, output)
		}
	}
}

func TestDecryptTampered(t *testing.T) {
	setupTestEnvironment(t)
	initializeKey(t)

	envelope := encryptValue(t, "secret")
	// Swap one base64 character inside the ciphertext.
	i := len(envelope) / 2
	replacement := byte('A')
	if envelope[i] == 'A' {
		replacement = 'B'
	}
	tampered := envelope[:i] + string(replacement) + envelope[i+1:]

	output, err := runCLI(t, "decrypt", tampered)
	if !errors.Is(err, kerrors.ErrAuthenticationFailed) {
		t.Errorf("Expected ErrAuthenticationFailed, got %v", err)
	}
	if strings.Contains(output, "secret\n") {
		t.Errorf("Tampered value must not reveal plaintext: %s", output)
	}
}

func TestDecryptAfterForceInit(t *testing.T) {
	setupTestEnvironment(t)
	initializeKey(t)
	envelope := encryptValue(t, "secret")

	initializeKey(t, "--force")

	_, err := runCLI(t, "decrypt", envelope)
	if !errors.Is(err, kerrors.ErrAuthenticationFailed) {
		t.Errorf("Expected ErrAuthenticationFailed after key replacement, got %v", err)
	}
}
