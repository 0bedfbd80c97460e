// Package errors provides typed error values for spps.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Key record errors: ErrNotInitialized, ErrAlreadyExists,
//     ErrRelocationCycle, ErrInvalidKeyRecord
//   - Envelope errors: ErrMalformedEnvelope, ErrAuthenticationFailed
//   - File errors: ErrIO, ErrNoAuditLog
//   - Input errors: ErrNoInput, ErrInvalidDateFormat
//
// # Usage
//
// Filesystem failures carry both ErrIO and the original error, so either
// can be matched:
//
//	return fmt.Errorf("%w: reading %s: %w", kerrors.ErrIO, path, err)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrNotInitialized) {
//	    // Tell the user to run `spps init`
//	}
package errors
