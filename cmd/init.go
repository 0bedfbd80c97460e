package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/spps/internal/ui"
	"github.com/PolarWolf314/spps/internal/workflows"
)

var (
	initForce      bool
	initRelocation string
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "replace an existing key record")
	initCmd.Flags().StringVar(&initRelocation, "relocation", "", "store the key at this path and point the settings record at it")
}

func resetInitCommandState() {
	initForce = false
	initRelocation = ""
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the key used to protect values",
	Long: `Creates a new random key and stores it in the key record
(~/.spps/settings unless --settings, SPPS_SETTINGS or key.settings_path
say otherwise).

With --relocation the key is written to the given path and the key record
only points there, which keeps the key on removable or shared storage.

Examples:
  spps init
  spps init --relocation /mnt/secure/spps/settings
  spps init --force      # replaces the key; old values stop decrypting`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		if initForce {
			Logger.WarnfUser("--force replaces the existing key. Values encrypted with it cannot be decrypted afterwards.")
		}

		spinner, cleanup := startSpinner("Creating key...")
		defer cleanup()

		result, err := workflows.Init(context.Background(), env, workflows.InitOptions{
			Force:      initForce,
			Relocation: initRelocation,
		})
		if err != nil {
			Logger.Errorf("Init failed: %v", err)
			spinner.FinalMSG = formatError(err)
			return reported(err)
		}

		finalMessage := ui.Success.Sprint("✓") + " Key created at " + ui.Path.Sprint(result.KeyPath)
		if result.Replaced {
			finalMessage = ui.Success.Sprint("✓") + " Key replaced at " + ui.Path.Sprint(result.KeyPath)
		}
		if result.Relocated {
			finalMessage += "\n" + ui.Info.Sprint("→") + " " + ui.Path.Sprint(result.SettingsPath) + " points to it"
		}
		finalMessage += "\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("spps encrypt VALUE") + " to protect a value"

		spinner.FinalMSG = finalMessage
		return nil
	},
}
