package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arxiv/relations-core/internal/application/handlers"
)

func newAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <eprint-id> <version> <relation-type> <resource-type> <resource-id>",
		Short: "Record a new relation for an e-print",
		Long: `Records a new relation between an e-print and an external resource.
Use version 0 for a paper-level relation that applies to every version.

Valid relation types:
  ` + strings.Join(handlers.ValidRelationTypes, ", ") + `

Examples:
  relations add 2101.00001 1 has-dataset dataset 10.5281/zenodo.123 --client c1 --user u1
  relations add 2101.00001 0 has-code code-repository https://github.com/example/solver`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args, description)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Free-text description of the relation")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string, description string) error {
	ctx := cmd.Context()

	eprintVersion, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid e-print version %q: %w", args[1], err)
	}

	creator, err := resolveCreator()
	if err != nil {
		return err
	}

	return withRelationHandler(ctx, func(handler *handlers.RelationHandler) error {
		a, err := handler.HandleAdd(ctx, handlers.SubmitInput{
			EPrintID:      args[0],
			EPrintVersion: eprintVersion,
			RelationType:  args[2],
			ResourceType:  args[3],
			ResourceID:    args[4],
			Description:   description,
			Creator:       creator,
		})
		if err != nil {
			return fmt.Errorf("recording relation: %w", err)
		}

		fmt.Printf("Recorded assertion %d\n", a.ID)
		fmt.Printf("  %s v%d -[%s]-> %s (%s)\n", a.EPrintID, a.EPrintVersion, a.Relation, a.Resource.Identifier, a.Resource.Type)
		return nil
	})
}
