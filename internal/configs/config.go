package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

type UserConfig struct {
	Key   KeyConfig   `toml:"key"`
	Audit AuditConfig `toml:"audit"`
}

type KeyConfig struct {
	// SettingsPath overrides ~/.spps/settings.
	SettingsPath string `toml:"settings_path"`
	// Relocation is the default relocation target for `spps init`.
	Relocation string `toml:"relocation"`
}

type AuditConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultUserConfig returns the configuration used when no file exists.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Audit: AuditConfig{Enabled: true},
	}
}

// LoadUserConfig loads the user configuration. A missing file yields the defaults.
func LoadUserConfig(configPath string) (*UserConfig, error) {
	config := DefaultUserConfig()

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	return config, nil
}

// SaveUserConfig saves the user configuration to configPath.
func SaveUserConfig(configPath string, config *UserConfig) error {
	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	return nil
}

// Load resolves the settings and user config for a command run.
func Load(settingsOverride string) (*Settings, *UserConfig, error) {
	settings, err := DefaultSettings()
	if err != nil {
		return nil, nil, err
	}

	config, err := LoadUserConfig(settings.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	settings.Apply(config, settingsOverride)
	return settings, config, nil
}

// ConfigKeys lists the names accepted by Set, in display order.
var ConfigKeys = []string{"key.settings_path", "key.relocation", "audit.enabled"}

// Get returns the value stored under a dotted name such as "key.relocation".
func (c *UserConfig) Get(name string) (string, error) {
	switch strings.ToLower(name) {
	case "key.settings_path":
		return c.Key.SettingsPath, nil
	case "key.relocation":
		return c.Key.Relocation, nil
	case "audit.enabled":
		return strconv.FormatBool(c.Audit.Enabled), nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", name, strings.Join(ConfigKeys, ", "))
	}
}

// Set updates the value stored under a dotted name.
func (c *UserConfig) Set(name, value string) error {
	switch strings.ToLower(name) {
	case "key.settings_path":
		c.Key.SettingsPath = value
	case "key.relocation":
		c.Key.Relocation = value
	case "audit.enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("audit.enabled must be true or false, got %q", value)
		}
		c.Audit.Enabled = enabled
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", name, strings.Join(ConfigKeys, ", "))
	}
	return nil
}
