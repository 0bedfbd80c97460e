// Package utils provides shared helpers for the spps command line.
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname
//   - Identity: "user@host" for audit entries and status output
//
// # I/O Utilities
//
//   - ReadValue: reads one value from piped stdin, dropping a single
//     trailing newline
//   - IsTerminal, IsTerminalFd: terminal detection so that a value is never
//     waited for on an interactive terminal
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - SplitList: splits comma separated flag values
package utils
