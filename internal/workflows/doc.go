// Package workflows implements the business logic behind each spps command.
//
// The cmd package parses flags, calls one workflow and prints the result.
// Workflows do everything else: they apply the user config, call into
// pkg/spps and write the audit trail.
//
// # Available Workflows
//
//   - Init: creates the key record, optionally relocated
//   - Encrypt: turns a plaintext into a "{base64}" envelope
//   - Decrypt: turns an envelope back into its plaintext
//   - Check: reports whether a value is an envelope
//   - Status: shows the relocation chain and file permissions
//   - Log: reads and filters the audit log
//   - ConfigShow, ConfigSet: read and update config.toml
//
// # Environment
//
// Every workflow takes an *Environment holding the resolved settings, the
// user config and a logger. NewEnvironment builds it the way the CLI does;
// tests assemble one over a temporary directory with configs.NewSettings.
//
// # Error Handling
//
// Workflows return the sentinel errors of internal/errors wrapped with
// context. Use errors.Is to tell them apart:
//
//	result, err := workflows.Decrypt(ctx, env, opts)
//	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
//	    // wrong key or tampered value
//	}
package workflows
