package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/notewise/internal/shell"
	"github.com/jeanpaul/notewise/internal/tui"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell (the default)",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	sh, err := shell.New(shell.Options{
		Config:  *cfg,
		Request: backendRequest(),
		Store:   newStore(),
		Logger:  logger,
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Banner:  tui.IsTerminal(os.Stdout),
	})
	if err != nil {
		return err
	}
	return sh.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
