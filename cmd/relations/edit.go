package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arxiv/relations-core/internal/application/handlers"
)

func newEditCmd() *cobra.Command {
	var (
		resourceID  string
		description string
	)

	cmd := &cobra.Command{
		Use:   "edit <assertion-id>",
		Short: "Supersede an assertion with a corrected one",
		Long: `Records a new assertion that supersedes an existing one, keeping the
relation and resource type but correcting the resource identifier and/or
description. The superseded assertion stays in the provenance log.

Examples:
  relations edit 42 --resource-id 10.5281/zenodo.124
  relations edit 42 --description "final dataset release"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args, resourceID, description)
		},
	}

	cmd.Flags().StringVar(&resourceID, "resource-id", "", "Corrected resource identifier")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Corrected description")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string, resourceID, description string) error {
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
		// Fetch the chain head so unchanged fields carry over.
		chain, err := handler.HandleProvenanceByID(ctx, priorID)
		if err != nil {
			return fmt.Errorf("looking up assertion %d: %w", priorID, err)
		}
		prior := chain[len(chain)-1]
		if prior.ID != priorID {
			return fmt.Errorf("assertion %d is not the active head (current head is %d)", priorID, prior.ID)
		}

		in := handlers.SubmitInput{
			EPrintID:      prior.EPrintID,
			EPrintVersion: prior.EPrintVersion,
			RelationType:  string(prior.Relation),
			ResourceType:  string(prior.Resource.Type),
			ResourceID:    prior.Resource.Identifier,
			Description:   prior.Description,
			Creator:       creator,
		}
		if resourceID != "" {
			in.ResourceID = resourceID
		}
		if description != "" {
			in.Description = description
		}

		a, err := handler.HandleSupersede(ctx, priorID, in)
		if err != nil {
			return fmt.Errorf("superseding assertion: %w", err)
		}

		fmt.Printf("Recorded assertion %d superseding %d\n", a.ID, priorID)
		fmt.Printf("  %s v%d -[%s]-> %s (%s)\n", a.EPrintID, a.EPrintVersion, a.Relation, a.Resource.Identifier, a.Resource.Type)
		return nil
	})
}
