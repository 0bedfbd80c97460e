package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SppsDirName is the per-user directory holding the key record.
	SppsDirName = ".spps"

	// SettingsFileName is the key record file inside SppsDirName.
	SettingsFileName = "settings"

	// ConfigFileName is the optional user configuration file.
	ConfigFileName = "config.toml"

	// AuditFileName is the audit log kept next to the key record.
	AuditFileName = "audit.jsonl"

	// SettingsEnvVar overrides the key record location.
	SettingsEnvVar = "SPPS_SETTINGS"
)

// Settings holds the filesystem locations spps works with. Nothing here is
// global: callers build a Settings and pass it down.
type Settings struct {
	HomeDir      string
	ConfigDir    string
	SettingsPath string
	ConfigPath   string
}

// NewSettings returns the default layout for a home and a user config directory.
func NewSettings(homeDir, configDir string) *Settings {
	sppsConfigDir := filepath.Join(configDir, "spps")
	return &Settings{
		HomeDir:      homeDir,
		ConfigDir:    sppsConfigDir,
		SettingsPath: filepath.Join(homeDir, SppsDirName, SettingsFileName),
		ConfigPath:   filepath.Join(sppsConfigDir, ConfigFileName),
	}
}

// DefaultSettings asks the operating system for the home and config directories.
func DefaultSettings() (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting home directory: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error getting config directory: %w", err)
	}

	return NewSettings(homeDir, configDir), nil
}

// Apply sets the effective key record path. The first non-empty value wins:
// the override (from --settings), the SPPS_SETTINGS environment variable,
// then key.settings_path from the user config.
func (s *Settings) Apply(config *UserConfig, override string) {
	candidates := []string{override, os.Getenv(SettingsEnvVar)}
	if config != nil {
		candidates = append(candidates, config.Key.SettingsPath)
	}

	for _, candidate := range candidates {
		if candidate != "" {
			s.SettingsPath = s.ExpandHome(candidate)
			return
		}
	}
}

// ExpandHome replaces a leading ~ with the home directory.
func (s *Settings) ExpandHome(path string) string {
	if path == "~" {
		return s.HomeDir
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(s.HomeDir, path[2:])
	}
	return path
}

// AuditLogPath returns the audit log location for the current key record.
func (s *Settings) AuditLogPath() string {
	return filepath.Join(filepath.Dir(s.SettingsPath), AuditFileName)
}
