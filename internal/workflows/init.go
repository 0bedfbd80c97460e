package workflows

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/PolarWolf314/spps/internal/audit"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// Force replaces an existing key record. Values encrypted with the old
	// key can no longer be decrypted.
	Force bool

	// Relocation stores the key at this path and leaves a pointer at the
	// settings record. Empty falls back to key.relocation from the config.
	Relocation string
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// SettingsPath is the record resolution starts from.
	SettingsPath string

	// KeyPath is the record that holds the key. It differs from
	// SettingsPath when the key was relocated.
	KeyPath string

	// Relocated is true when SettingsPath was written as a pointer.
	Relocated bool

	// Replaced is true when an existing record was overwritten.
	Replaced bool
}

// Init creates the protecting key.
//
// Returns ErrAlreadyExists if a record exists and Force is not set.
// Returns ErrIO if the record or its directory cannot be written.
func Init(ctx context.Context, env *Environment, opts InitOptions) (*InitResult, error) {
	relocation := opts.Relocation
	if relocation == "" {
		relocation = env.config().Key.Relocation
	}
	relocation = env.Settings.ExpandHome(relocation)

	settingsPath := env.Settings.SettingsPath
	_, statErr := os.Lstat(settingsPath)
	existed := !errors.Is(statErr, fs.ErrNotExist)

	env.Logger.Debugf("Initializing key record at %s (force=%t, relocation=%q)", settingsPath, opts.Force, relocation)

	entry := audit.NewEntry(audit.OpInit)
	entry.Relocation = relocation
	entry.Forced = opts.Force

	protector := env.protector(relocation)
	err := protector.CreatePrivateKey(ctx, opts.Force)
	env.record(entry, err)
	if err != nil {
		return nil, err
	}

	result := &InitResult{
		SettingsPath: settingsPath,
		KeyPath:      settingsPath,
		Replaced:     existed && opts.Force,
	}

	chain, err := protector.Chain()
	if err != nil {
		return nil, err
	}
	result.KeyPath = chain[len(chain)-1].Path
	result.Relocated = len(chain) > 1

	env.Logger.Infof("Key stored at %s", result.KeyPath)
	return result, nil
}
