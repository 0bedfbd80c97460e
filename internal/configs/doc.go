// Package configs manages spps locations and user configuration.
//
// # Locations
//
// Settings describes where things live:
//   - Key record: ~/.spps/settings
//   - User config: <user config dir>/spps/config.toml
//   - Audit log: audit.jsonl next to the key record
//
// There are no package level globals. Commands call Load once and pass the
// resulting Settings and UserConfig to the workflows, which keeps tests away
// from the real home directory.
//
// # Record Path Precedence
//
//  1. --settings flag
//  2. SPPS_SETTINGS environment variable
//  3. key.settings_path in config.toml
//  4. ~/.spps/settings
//
// A leading ~ in any of these is expanded to the home directory.
//
// # User Configuration
//
// config.toml is optional and stored in TOML:
//
//	[key]
//	settings_path = ""
//	relocation = ""
//
//	[audit]
//	enabled = true
//
// key.relocation is the default target for `spps init` when --relocation is
// not given. Missing entries keep their defaults.
package configs
