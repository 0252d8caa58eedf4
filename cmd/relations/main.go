// Package main provides the entry point for the relations CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version      = "0.1.0-dev"
	globalClient string
	globalUser   string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "relations",
		Short:   "Append-only ledger of relations between arXiv e-prints and external resources",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&globalClient, "client", "", "Client ID of the submitter (or RELATIONS_CLIENT_ID)")
	rootCmd.PersistentFlags().StringVar(&globalUser, "user", "", "User ID of the submitter (or RELATIONS_USER_ID)")

	rootCmd.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newEditCmd(),
		newRetractCmd(),
		newListCmd(),
		newProvenanceCmd(),
		newStatusCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
