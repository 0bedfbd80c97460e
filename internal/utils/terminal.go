package utils

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsTerminalFd returns true if the file descriptor refers to a terminal.
func IsTerminalFd(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
