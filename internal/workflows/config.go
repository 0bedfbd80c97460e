package workflows

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/PolarWolf314/spps/internal/configs"
)

// ConfigEntry is one named user config value.
type ConfigEntry struct {
	Name  string
	Value string
}

// ConfigShowResult lists the user config and the settings derived from it.
type ConfigShowResult struct {
	// ConfigPath is the config file location.
	ConfigPath string

	// Exists is false when the defaults are in effect.
	Exists bool

	Entries []ConfigEntry

	// SettingsPath is the key record after flag, environment and config
	// precedence have been applied.
	SettingsPath string
}

// ConfigShow returns the user config values.
func ConfigShow(ctx context.Context, env *Environment) (*ConfigShowResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, statErr := os.Stat(env.Settings.ConfigPath)

	result := &ConfigShowResult{
		ConfigPath:   env.Settings.ConfigPath,
		Exists:       !errors.Is(statErr, fs.ErrNotExist),
		SettingsPath: env.Settings.SettingsPath,
	}

	config := env.config()
	for _, name := range configs.ConfigKeys {
		value, err := config.Get(name)
		if err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, ConfigEntry{Name: name, Value: value})
	}

	return result, nil
}

// ConfigSetOptions configures the config set workflow.
type ConfigSetOptions struct {
	Name  string
	Value string
}

// ConfigSet updates one user config value and saves the file.
func ConfigSet(ctx context.Context, env *Environment, opts ConfigSetOptions) (*ConfigEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, err := configs.LoadUserConfig(env.Settings.ConfigPath)
	if err != nil {
		return nil, err
	}

	if err := config.Set(opts.Name, opts.Value); err != nil {
		return nil, err
	}

	env.Logger.Debugf("Saving user config to %s", env.Settings.ConfigPath)
	if err := configs.SaveUserConfig(env.Settings.ConfigPath, config); err != nil {
		return nil, err
	}
	env.Config = config

	value, err := config.Get(opts.Name)
	if err != nil {
		return nil, err
	}
	return &ConfigEntry{Name: opts.Name, Value: value}, nil
}
