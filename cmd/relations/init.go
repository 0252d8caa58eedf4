package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arxiv/relations-core/internal/infrastructure/assertionstore/sqlite"
	"github.com/arxiv/relations-core/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a relations ledger in the current directory",
		Long: `Creates the .relations directory with a default configuration file and
an empty ledger database.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if err := config.WriteDefault(cwd); err != nil {
		return err
	}

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: config.DatabasePath(cwd)})
	if err != nil {
		return fmt.Errorf("creating ledger database: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("creating ledger schema: %w", err)
	}

	fmt.Printf("Initialized relations ledger in %s/%s\n", cwd, config.DefaultConfigDir)
	return nil
}
