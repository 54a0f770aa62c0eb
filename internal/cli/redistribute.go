package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/rebalance"
)

// NewRedistributeCommand creates the redistribute command.
func NewRedistributeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "redistribute",
		Short: "Spread all priorities evenly across [0,255]",
		Long: `Reassign every requirement an evenly spaced priority across the full
[0,255] range, preserving the current order (ties broken by ID).

Example:
  reqrank redistribute --db ./reqs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			updates, err := rebalance.New(st).Redistribute(cmd.Context())
			if err != nil {
				return engineError("redistribute failed", err)
			}
			return outputUpdates(formatterFor(rootOpts, cmd), "redistribute", updates)
		},
	}
}
