package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/spps/internal/ui"
	"github.com/PolarWolf314/spps/internal/workflows"
)

// ConfigCmd groups the user configuration commands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage spps configuration",
	Long: `Reads and updates the user configuration file.

Keys:
  key.settings_path   key record used when --settings and SPPS_SETTINGS are unset
  key.relocation      default --relocation for spps init
  audit.enabled       record operations in the audit log (true/false)

Examples:
  spps config show
  spps config set key.relocation /mnt/secure/spps/settings
  spps config set audit.enabled false`,
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSetCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := workflows.ConfigShow(context.Background(), env)
		if err != nil {
			fmt.Print(formatError(err))
			return reported(err)
		}

		source := ui.Path.Sprint(result.ConfigPath)
		if !result.Exists {
			source += " " + ui.Muted.Sprint("not created yet, showing defaults")
		}
		fmt.Println("Config: " + source)
		for _, entry := range result.Entries {
			value := entry.Value
			if value == "" {
				value = ui.Muted.Sprint("unset")
			}
			fmt.Printf("  %-18s %s\n", entry.Name, value)
		}
		fmt.Println("Key record in use: " + ui.Path.Sprint(result.SettingsPath))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := workflows.ConfigSet(context.Background(), env, workflows.ConfigSetOptions{
			Name:  args[0],
			Value: args[1],
		})
		if err != nil {
			fmt.Print(formatError(err))
			return reported(err)
		}

		fmt.Println(ui.Success.Sprint("✓") + " Set " + ui.Highlight.Sprint(entry.Name) + " to " + entry.Value)
		return nil
	},
}
