package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arxiv/relations-core/internal/application/handlers"
	"github.com/arxiv/relations-core/internal/domain/entities"
)

func newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <eprint-id> [version]",
		Short: "List the current relations for an e-print",
		Long: `Shows the aggregated current relations for an e-print version: one row
per live relation chain, with superseded and retracted entries folded away.
Omitting the version (or passing 0) lists relations across all versions.

Examples:
  relations list 2101.00001 2
  relations list 2101.00001 --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func runList(cmd *cobra.Command, args []string, asJSON bool) error {
	ctx := cmd.Context()

	version := entities.VersionAny
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid e-print version %q: %w", args[1], err)
		}
		version = v
	}

	return withRelationHandler(ctx, func(handler *handlers.RelationHandler) error {
		views, err := handler.HandleList(ctx, args[0], version)
		if err != nil {
			return fmt.Errorf("listing relations: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		}

		if len(views) == 0 {
			fmt.Printf("No relations recorded for %s\n", args[0])
			return nil
		}

		for _, v := range views {
			fmt.Printf("[%d] %s v%d -[%s]-> %s (%s)\n", v.AssertionID, v.EPrintID, v.EPrintVersion, v.Relation, v.Resource.Identifier, v.Resource.Type)
			if v.Description != "" {
				fmt.Printf("      %s\n", v.Description)
			}
			fmt.Printf("      asserted %s by %s, updated %s\n",
				v.FirstAssertedAt.Format("2006-01-02"), v.Creator, v.UpdatedAt.Format("2006-01-02"))
		}
		return nil
	})
}
