// Package audit provides an audit trail for spps key operations.
//
// Key initialization, encryption and decryption are recorded in a JSON
// Lines file next to the key record:
//
//	~/.spps/audit.jsonl
//
// Each entry contains:
//   - A random entry ID and a UTC timestamp with microseconds
//   - The OS user and host
//   - The operation name and the settings record it started from
//   - For init, the relocation target and whether --force was used
//   - The error message when the operation failed
//
// Plaintext, envelopes and keys are never written to the log.
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. Operations should never
// fail just because audit logging failed.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
