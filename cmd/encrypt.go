package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/spps/internal/workflows"
)

var (
	encryptStdin bool
	decryptStdin bool
)

func init() {
	encryptCmd.Flags().BoolVar(&encryptStdin, "stdin", false, "read the value from stdin")
	decryptCmd.Flags().BoolVar(&decryptStdin, "stdin", false, "read the value from stdin")
}

func resetValueCommandState() {
	encryptStdin = false
	decryptStdin = false
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [VALUE]",
	Short: "Encrypt a value with your key",
	Long: `Encrypts VALUE and prints it as {base64}, ready to be pasted into a
configuration file.

Prefer --stdin so the value does not end up in your shell history:
  printf %s "$PASSWORD" | spps encrypt --stdin`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")

		value, err := readValue(cmd, args, encryptStdin)
		if err != nil {
			fmt.Fprint(os.Stderr, formatError(err))
			return reported(err)
		}

		result, err := workflows.Encrypt(context.Background(), env, workflows.EncryptOptions{Value: value})
		if err != nil {
			Logger.Errorf("Encrypt failed: %v", err)
			fmt.Fprint(os.Stderr, formatError(err))
			return reported(err)
		}

		if result.AlreadyEncrypted {
			Logger.WarnfUser("the value already looks encrypted; it was encrypted again")
		}

		fmt.Println(result.Envelope)
		return nil
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [VALUE]",
	Short: "Decrypt a value produced by spps encrypt",
	Long: `Decrypts an encrypted {base64} VALUE and prints the plaintext.

Examples:
  spps decrypt '{q83v...}'
  grep db_password app.properties | cut -d= -f2 | spps decrypt --stdin`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")

		value, err := readValue(cmd, args, decryptStdin)
		if err != nil {
			fmt.Fprint(os.Stderr, formatError(err))
			return reported(err)
		}

		result, err := workflows.Decrypt(context.Background(), env, workflows.DecryptOptions{Value: value})
		if err != nil {
			Logger.Errorf("Decrypt failed: %v", err)
			fmt.Fprint(os.Stderr, formatError(err))
			return reported(err)
		}

		fmt.Println(result.Plaintext)
		return nil
	},
}
