package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	logger "github.com/PolarWolf314/spps/internal/logging"
	"github.com/PolarWolf314/spps/internal/ui"
	"github.com/PolarWolf314/spps/internal/workflows"
)

var (
	verbose          bool
	debug            bool
	settingsOverride string
	Logger           logger.Logger

	// env is resolved once per invocation before any command runs.
	env *workflows.Environment
)

// Register attaches the spps commands and persistent flags to root.
func Register(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	root.PersistentFlags().StringVar(&settingsOverride, "settings", "", "path to the key record (default ~/.spps/settings)")

	// Commands print their own failures; main only sets the exit status.
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.PersistentPreRunE = setupEnvironment

	root.AddCommand(initCmd)
	root.AddCommand(encryptCmd)
	root.AddCommand(decryptCmd)
	root.AddCommand(checkCmd)
	root.AddCommand(statusCmd)
	root.AddCommand(logCmd)
	root.AddCommand(ConfigCmd)
}

func setupEnvironment(cmd *cobra.Command, args []string) error {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}
	Logger.Debugf("Running %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		Logger.Debugf("Flag --%s=%s", flag.Name, flag.Value.String())
	})

	resolved, err := workflows.NewEnvironment(settingsOverride, Logger)
	if err != nil {
		fmt.Print(ui.Failure("Failed to load configuration: %v", err))
		return reported(err)
	}
	Logger.Debugf("Key record: %s, config: %s", resolved.Settings.SettingsPath, resolved.Settings.ConfigPath)

	env = resolved
	return nil
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	settingsOverride = ""
	Logger = logger.Logger{}
	env = nil
	resetInitCommandState()
	resetValueCommandState()
	resetLogCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
