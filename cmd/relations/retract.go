package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arxiv/relations-core/internal/application/handlers"
)

func newRetractCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "retract <assertion-id>",
		Short: "Retract a relation by suppressing its assertion",
		Long: `Records a suppression of an existing assertion. The relation no longer
appears in aggregated views, but the full chain stays in the provenance log.

Examples:
  relations retract 42 --reason "resource deleted by its host"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetract(cmd, args, reason)
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why the relation is being retracted")

	return cmd
}

func runRetract(cmd *cobra.Command, args []string, reason string) error {
	ctx := cmd.Context()

	priorID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid assertion id %q: %w", args[0], err)
	}

	creator, err := resolveCreator()
	if err != nil {
		return err
	}

	return withRelationHandler(ctx, func(handler *handlers.RelationHandler) error {
		chain, err := handler.HandleProvenanceByID(ctx, priorID)
		if err != nil {
			return fmt.Errorf("looking up assertion %d: %w", priorID, err)
		}
		prior := chain[len(chain)-1]
		if prior.ID != priorID {
			return fmt.Errorf("assertion %d is not the active head (current head is %d)", priorID, prior.ID)
		}

		a, err := handler.HandleSuppress(ctx, priorID, prior.EPrintID, prior.EPrintVersion, reason, creator)
		if err != nil {
			return fmt.Errorf("retracting relation: %w", err)
		}

		fmt.Printf("Recorded suppression %d of assertion %d\n", a.ID, priorID)
		fmt.Printf("  %s v%d -[%s]-> %s (%s)\n", a.EPrintID, a.EPrintVersion, a.Relation, a.Resource.Identifier, a.Resource.Type)
		return nil
	})
}
