package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/spps/cmd"
	"github.com/PolarWolf314/spps/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "spps",
	Short: "spps - Simple Password Protection Solution",
	Long: `spps keeps secrets in configuration files encrypted with a key that
lives on your machine.

Usage:
  spps <command> [flags]

Getting started:
  spps init                          create your key
  spps encrypt 'hunter2'             prints {...}, paste it into your config
  spps decrypt '{...}'               prints hunter2

Run 'spps help <command>' for more details on a specific command.
`,
	Run: func(c *cobra.Command, args []string) {
		fmt.Println()
		figure.NewColorFigure("spps", "small", "green", true).Print()
		fmt.Println()
		fmt.Println("Welcome to spps! Run 'spps --help' to see available commands.")
	},
}

func main() {
	// Wipe guarded key buffers if the process is interrupted mid-operation.
	memguard.CatchInterrupt()
	defer memguard.Purge()

	cmd.Register(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprint(os.Stderr, ui.Failure("%v", err))
		}
		memguard.SafeExit(1)
	}
}
