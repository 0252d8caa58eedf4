package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arxiv/relations-core/internal/application/handlers"
	"github.com/arxiv/relations-core/internal/domain/entities"
)

func newProvenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provenance <assertion-id>",
		Short: "Show the full history of a relation",
		Long: `Shows every assertion in the chain containing the given assertion, oldest
first, with each entry's derived status. Retracted chains are shown too;
nothing is ever removed from the log.

Examples:
  relations provenance 42`,
		Args: cobra.ExactArgs(1),
		RunE: runProvenance,
	}

	return cmd
}

func runProvenance(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid assertion id %q: %w", args[0], err)
	}

	return withRelationHandler(ctx, func(handler *handlers.RelationHandler) error {
		chain, err := handler.HandleProvenanceByID(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching provenance: %w", err)
		}

		for _, a := range chain {
			printAssertion(a)
		}
		return nil
	})
}

func printAssertion(a entities.Assertion) {
	fmt.Printf("[%d] %s  %s v%d -[%s]-> %s (%s)  [%s]\n",
		a.ID, a.Action, a.EPrintID, a.EPrintVersion, a.Relation, a.Resource.Identifier, a.Resource.Type, a.Status)
	if a.Description != "" {
		fmt.Printf("      %s\n", a.Description)
	}
	fmt.Printf("      by %s at %s\n", a.Creator, a.CreatedAt.Format("2006-01-02 15:04:05 MST"))
}
