package utils

import (
	"fmt"
	"io"
	"strings"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
)

// ReadValue reads a single value from r, typically piped stdin.
// One trailing newline (\n or \r\n) is removed so that `echo secret | spps
// encrypt --stdin` protects "secret" rather than "secret\n". Anything else,
// including inner newlines, is kept as is.
func ReadValue(r io.Reader) (string, error) {
	if f, ok := r.(interface{ Fd() uintptr }); ok && IsTerminalFd(f.Fd()) {
		return "", fmt.Errorf("%w (hint: pipe the value to this command)", kerrors.ErrNoInput)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}

	if len(data) == 0 {
		return "", kerrors.ErrNoInput
	}

	value := string(data)
	if strings.HasSuffix(value, "\r\n") {
		return strings.TrimSuffix(value, "\r\n"), nil
	}
	return strings.TrimSuffix(value, "\n"), nil
}
