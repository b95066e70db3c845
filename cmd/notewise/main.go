package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeanpaul/notewise/internal/shell"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		shell.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
