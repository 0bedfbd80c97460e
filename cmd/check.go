package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/spps/internal/ui"
	"github.com/PolarWolf314/spps/internal/workflows"
)

var checkCmd = &cobra.Command{
	Use:   "check VALUE",
	Short: "Report whether a value is encrypted",
	Long: `Reports whether VALUE has the {...} form of an encrypted value. The key
is not read, so a value can look encrypted and still fail to decrypt.

Exits with status 1 when the value is not encrypted, which makes it usable
in scripts:
  spps check "$DB_PASSWORD" || echo "DB_PASSWORD is stored in plain text"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if workflows.Check(args[0]).Encrypted {
			fmt.Println(ui.Mark(true) + " Value is encrypted")
			return nil
		}

		fmt.Println(ui.Mark(false) + " Value is not encrypted")
		return reported(errNotEncrypted)
	},
}
