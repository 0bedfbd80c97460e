package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/spps/internal/audit"
	kerrors "github.com/PolarWolf314/spps/internal/errors"
	"github.com/PolarWolf314/spps/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logUser      string
	logOperation string
	logSince     string
	logUntil     string
	logFailed    bool
	logOneline   bool
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by OS user")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logFailed, "failed", false, "show only failed operations")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logUser = ""
	logOperation = ""
	logSince = ""
	logUntil = ""
	logFailed = false
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log kept next to the key record.

Every init, encrypt and decrypt is recorded with the user, host and
outcome. Values and keys are never written to the log.

Examples:
  spps log                              # View full log
  spps log -n 10                        # Last 10 entries
  spps log --reverse                    # Most recent first
  spps log --operation decrypt --failed # Failed decryptions
  spps log --since 2024-01-01           # Filter by date
  spps log --json                       # JSON output`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")

		spinner, cleanup := startSpinner("Loading audit log...")
		defer cleanup()

		result, err := workflows.Log(context.Background(), env, workflows.LogOptions{
			Limit:      logLimit,
			Reverse:    logReverse,
			User:       logUser,
			Operations: logOperation,
			Since:      logSince,
			Until:      logUntil,
			FailedOnly: logFailed,
		})
		if err != nil {
			spinner.FinalMSG = formatError(err)
			if errors.Is(err, kerrors.ErrNoAuditLog) {
				return nil
			}
			return reported(err)
		}

		Logger.Debugf("Parsed %d entries from %s", result.TotalEntriesBeforeFilter, result.Path)
		Logger.Debugf("After filtering: %d entries", len(result.Entries))

		if len(result.Entries) == 0 {
			if result.TotalEntriesBeforeFilter == 0 {
				spinner.FinalMSG = "No audit log entries found."
			} else {
				spinner.FinalMSG = "No audit log entries found matching the filters."
			}
			return nil
		}

		// Entries are printed after the spinner is gone.
		cleanup()
		switch {
		case logJSON:
			return outputLogJSON(result.Entries)
		case logOneline:
			outputLogOneline(result.Entries)
		default:
			outputLogDefault(result.Entries)
		}
		return nil
	},
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogOneline(entries []audit.Entry) {
	for _, e := range entries {
		fmt.Printf("%s %s %s %s\n", workflows.FormatDate(e.Timestamp), e.User, e.Operation, workflows.FormatDetailsOneline(e))
	}
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		fmt.Printf("%-19s  %-15s  %-20s  %-8s  %s\n",
			workflows.FormatDateTime(e.Timestamp), e.User, e.Host, e.Operation, workflows.FormatDetails(e))
	}
}
