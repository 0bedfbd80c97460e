package workflows

import (
	"errors"

	"github.com/PolarWolf314/spps/internal/audit"
	"github.com/PolarWolf314/spps/internal/configs"
	kerrors "github.com/PolarWolf314/spps/internal/errors"
	logger "github.com/PolarWolf314/spps/internal/logging"
	"github.com/PolarWolf314/spps/pkg/spps"
)

// Environment carries the resolved configuration a workflow runs against.
// The cmd layer builds one per invocation; tests build one over a temp dir.
type Environment struct {
	Settings *configs.Settings
	Config   *configs.UserConfig
	Logger   logger.Logger
}

// NewEnvironment resolves settings and user config the way the CLI does.
func NewEnvironment(settingsOverride string, log logger.Logger) (*Environment, error) {
	settings, config, err := configs.Load(settingsOverride)
	if err != nil {
		return nil, err
	}
	return &Environment{Settings: settings, Config: config, Logger: log}, nil
}

func (e *Environment) config() *configs.UserConfig {
	if e.Config == nil {
		return configs.DefaultUserConfig()
	}
	return e.Config
}

// protector returns the public API bound to the settings record.
func (e *Environment) protector(relocation string) *spps.Protector {
	return spps.New(spps.Config{
		SettingsPath: e.Settings.SettingsPath,
		Relocation:   relocation,
		Logger:       e.Logger,
	})
}

func (e *Environment) recorder() *audit.Recorder {
	return audit.NewRecorder(e.Settings.AuditLogPath(), e.config().Audit.Enabled)
}

// record writes an audit entry for op, noting err when the operation failed.
// Nothing is written before a key exists, so a failed operation does not
// create the settings directory ahead of init.
func (e *Environment) record(entry audit.Entry, err error) {
	if errors.Is(err, kerrors.ErrNotInitialized) {
		e.Logger.Debugf("Skipping audit entry for %s: no key record yet", entry.Operation)
		return
	}
	entry.Settings = e.Settings.SettingsPath
	if err != nil {
		entry.Error = err.Error()
	}
	e.recorder().Record(entry)
}
