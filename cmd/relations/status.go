package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report ledger health",
		Long:  `Checks that the assertion store is reachable and reports how many assertions it holds.`,
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		st := d.StatusHandler.HandleStatus(ctx)
		if !st.StoreReachable {
			return fmt.Errorf("assertion store unreachable")
		}
		fmt.Printf("Store: ok\nAssertions: %d\n", st.Assertions)
		return nil
	})
}
