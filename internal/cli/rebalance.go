package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/rebalance"
)

// RebalanceOptions holds flags for the rebalance command.
type RebalanceOptions struct {
	*RootOptions
	Min uint8
	Max uint8
}

// NewRebalanceCommand creates the rebalance command.
func NewRebalanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RebalanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rebalance",
		Short: "Respread priorities inside a window",
		Long: `Redistribute only the requirements whose priority falls inside
[--min,--max], spacing them evenly across that window. Requirements
outside the window are untouched; a window holding one requirement or
none is a no-op.

Example:
  reqrank rebalance --min 100 --max 150 --db ./reqs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(opts.RootOptions)
			if err != nil {
				return err
			}
			defer closeStore(st)

			updates, err := rebalance.New(st).RebalanceRange(cmd.Context(), opts.Min, opts.Max)
			if err != nil {
				return engineError("rebalance failed", err)
			}
			return outputUpdates(formatterFor(opts.RootOptions, cmd), "rebalance", updates)
		},
	}

	cmd.Flags().Uint8Var(&opts.Min, "min", 0, "bottom of the window")
	cmd.Flags().Uint8Var(&opts.Max, "max", 255, "top of the window")

	return cmd
}
