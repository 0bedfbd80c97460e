package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/spps/internal/ui"
	"github.com/PolarWolf314/spps/internal/utils"
	"github.com/PolarWolf314/spps/internal/workflows"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the key is stored",
	Long: `Follows the key record and any relocation pointers and shows each file
on the way, its permissions, and where the audit log is written. The key
itself is never printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		spinner, cleanup := startSpinner("Checking key records...")
		defer cleanup()

		result, err := workflows.Status(context.Background(), env)
		if err != nil {
			spinner.FinalMSG = formatError(err)
			return reported(err)
		}

		spinner.FinalMSG = formatStatus(result)
		cleanup()

		if len(result.InsecureFiles) > 0 {
			Logger.WarnfUser("key records readable by other users, consider running 'chmod 600' on:%s",
				utils.FormatPaths(result.InsecureFiles))
		}

		if result.Problem != nil {
			return reported(result.Problem)
		}
		return nil
	},
}

func formatStatus(result *workflows.StatusResult) string {
	var b strings.Builder

	switch {
	case result.Problem != nil:
		b.WriteString(formatError(result.Problem))
	case !result.Initialized:
		b.WriteString(ui.Mark(false) + " No key has been initialized at " + ui.Path.Sprint(result.SettingsPath) + "\n")
		b.WriteString(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("spps init") + " to create one\n")
	default:
		b.WriteString(ui.Mark(true) + " Key is ready\n")
	}

	if len(result.Chain) > 0 {
		b.WriteString("\nKey records:\n")
		for i, link := range result.Chain {
			kind := "pointer"
			if link.Authoritative {
				kind = "key"
			}
			fmt.Fprintf(&b, "  %d. %s %s %s\n", i+1, ui.Path.Sprint(link.Path), ui.Muted.Sprint(kind),
				ui.Muted.Sprintf("%04o", link.Mode.Perm()))
			if !link.Authoritative && link.Relocation != "" {
				fmt.Fprintf(&b, "     %s %s\n", ui.Info.Sprint("→"), link.Relocation)
			}
		}
	}

	audit := "disabled"
	if result.AuditEnabled {
		audit = "enabled"
	}
	fmt.Fprintf(&b, "\nAudit log: %s %s\n", ui.Path.Sprint(result.AuditLogPath), ui.Muted.Sprint(audit))
	fmt.Fprintf(&b, "Config:    %s", ui.Path.Sprint(result.ConfigPath))

	return b.String()
}
