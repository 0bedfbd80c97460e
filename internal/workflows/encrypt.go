package workflows

import (
	"context"

	"github.com/PolarWolf314/spps/internal/audit"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// Value is the plaintext to protect.
	Value string
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// Envelope is the encrypted value, "{base64}".
	Envelope string

	// AlreadyEncrypted is set when Value already looked like an envelope.
	// It is encrypted again regardless; the flag lets the CLI warn.
	AlreadyEncrypted bool
}

// Encrypt protects a value with the key from the settings record.
//
// Returns ErrNotInitialized if no key exists yet.
// Returns ErrRelocationCycle or ErrInvalidKeyRecord for a broken chain.
func Encrypt(ctx context.Context, env *Environment, opts EncryptOptions) (*EncryptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	protector := env.protector("")
	result := &EncryptResult{AlreadyEncrypted: protector.IsEncryptedValue(&opts.Value)}

	env.Logger.Debugf("Encrypting %d bytes with key from %s", len(opts.Value), env.Settings.SettingsPath)

	envelope, err := protector.EncryptString(opts.Value)
	env.record(audit.NewEntry(audit.OpEncrypt), err)
	if err != nil {
		return nil, err
	}

	result.Envelope = envelope
	return result, nil
}
