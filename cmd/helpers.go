package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
	"github.com/PolarWolf314/spps/internal/ui"
	"github.com/PolarWolf314/spps/internal/utils"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. The returned cleanup must be deferred; it stops
// the spinner and prints s.FinalMSG with a trailing newline.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Cleared so s.Stop() doesn't print it too.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Printed to stdout so tests can capture it.
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// readValue returns the value for encrypt and decrypt: the single argument,
// or stdin when fromStdin is set.
func readValue(cmd *cobra.Command, args []string, fromStdin bool) (string, error) {
	switch {
	case fromStdin && len(args) > 0:
		return "", fmt.Errorf("pass the value as an argument or with --stdin, not both")
	case fromStdin:
		Logger.Debugf("Reading value from stdin")
		return utils.ReadValue(cmd.InOrStdin())
	case len(args) == 1:
		return args[0], nil
	default:
		return "", kerrors.ErrNoInput
	}
}
