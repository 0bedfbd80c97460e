package workflows

import (
	"context"
	"errors"
	"io/fs"
	"runtime"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
	"github.com/PolarWolf314/spps/pkg/spps"
)

// insecureBits are the permission bits a key record must not carry.
const insecureBits fs.FileMode = 0077

// StatusResult describes where the key lives and how it is protected.
type StatusResult struct {
	// SettingsPath is the record resolution starts from.
	SettingsPath string

	// ConfigPath is the user config file, which may not exist.
	ConfigPath string

	// Initialized is false when the settings record (or a record it points
	// to) does not exist.
	Initialized bool

	// Chain lists the records visited, ending at the one holding the key.
	// It is partial when Problem is set.
	Chain []spps.ChainLink

	// InsecureFiles lists records readable by group or others.
	InsecureFiles []string

	// AuditLogPath is where operations are recorded.
	AuditLogPath string

	// AuditEnabled reports the audit.enabled setting.
	AuditEnabled bool

	// Problem is set when the chain is broken: a cycle, an invalid record
	// or an unreadable file.
	Problem error
}

// Healthy reports whether the key can be used and is stored safely.
func (r *StatusResult) Healthy() bool {
	return r.Initialized && r.Problem == nil && len(r.InsecureFiles) == 0
}

// Status inspects the key record chain without reading the key itself.
func Status(ctx context.Context, env *Environment) (*StatusResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &StatusResult{
		SettingsPath: env.Settings.SettingsPath,
		ConfigPath:   env.Settings.ConfigPath,
		AuditLogPath: env.Settings.AuditLogPath(),
		AuditEnabled: env.config().Audit.Enabled,
	}

	chain, err := env.protector("").Chain()
	result.Chain = chain

	switch {
	case err == nil:
		result.Initialized = true
	case errors.Is(err, kerrors.ErrNotInitialized):
		env.Logger.Debugf("Chain stops at a missing record: %v", err)
	default:
		result.Initialized = len(chain) > 0
		result.Problem = err
	}

	if runtime.GOOS != "windows" {
		for _, link := range chain {
			if link.Mode&insecureBits != 0 {
				result.InsecureFiles = append(result.InsecureFiles, link.Path)
			}
		}
	}

	return result, nil
}
