package errors

import "errors"

// Key record errors indicate problems locating or creating the protecting key.
var (
	// ErrNotInitialized indicates no key record exists yet at the resolved path.
	ErrNotInitialized = errors.New("no key has been initialized")

	// ErrAlreadyExists indicates a key record already exists and force was not set.
	ErrAlreadyExists = errors.New("key record already exists")

	// ErrRelocationCycle indicates a relocation chain visits the same record twice.
	ErrRelocationCycle = errors.New("relocation cycle detected")

	// ErrInvalidKeyRecord indicates the record is neither a key nor a pointer,
	// or holds a key that does not decode to 32 bytes.
	ErrInvalidKeyRecord = errors.New("invalid key record")
)

// Envelope errors indicate failures while decrypting an encrypted value.
var (
	// ErrMalformedEnvelope indicates the value is not a well formed {base64} envelope.
	ErrMalformedEnvelope = errors.New("value is not an encrypted envelope")

	// ErrAuthenticationFailed indicates the authentication tag did not verify.
	ErrAuthenticationFailed = errors.New("envelope authentication failed")
)

// File errors indicate issues with the underlying filesystem.
var (
	// ErrIO wraps filesystem failures such as permission denied or a full disk.
	ErrIO = errors.New("key store i/o failure")

	// ErrNoAuditLog indicates there is no audit log to read.
	ErrNoAuditLog = errors.New("no audit log found")
)

// Input errors indicate invalid user supplied values.
var (
	// ErrNoInput indicates no value was given on the command line or stdin.
	ErrNoInput = errors.New("no value provided")

	// ErrInvalidDateFormat indicates a date filter could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// RecordError ties a key record failure to the record it concerns. The
// record may differ from the settings path when the failure happened at a
// relocation target.
type RecordError struct {
	Path string
	Err  error
}

func (e *RecordError) Error() string { return e.Err.Error() + ": " + e.Path }
func (e *RecordError) Unwrap() error { return e.Err }
