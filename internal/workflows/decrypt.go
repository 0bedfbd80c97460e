package workflows

import (
	"context"

	"github.com/PolarWolf314/spps/internal/audit"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// Value is the envelope to open.
	Value string
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Plaintext string
}

// Decrypt opens an envelope with the key from the settings record.
//
// Returns ErrMalformedEnvelope if Value is not an envelope. The key is not
// read in that case.
// Returns ErrAuthenticationFailed if the envelope was tampered with or was
// made with a different key.
// Returns ErrNotInitialized if no key exists yet.
func Decrypt(ctx context.Context, env *Environment, opts DecryptOptions) (*DecryptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env.Logger.Debugf("Decrypting envelope with key from %s", env.Settings.SettingsPath)

	plaintext, err := env.protector("").Decrypt(opts.Value)
	env.record(audit.NewEntry(audit.OpDecrypt), err)
	if err != nil {
		return nil, err
	}

	return &DecryptResult{Plaintext: plaintext}, nil
}
