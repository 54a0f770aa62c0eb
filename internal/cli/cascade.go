package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/plan"
	"github.com/roach88/reqrank/internal/rebalance"
)

// CascadeOptions holds flags for the cascade command.
type CascadeOptions struct {
	*RootOptions
	Start uint8
}

// NewCascadeCommand creates the cascade command.
func NewCascadeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CascadeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Respread the top priority band",
		Long: `Redistribute the requirements at or above --start evenly across
[start,255], highest first. Requirements below the start priority are
untouched. Useful after repeated max-priority promotions have bunched
everything against 255.

Example:
  reqrank cascade --start 250 --db ./reqs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(opts.RootOptions)
			if err != nil {
				return err
			}
			defer closeStore(st)

			updates, err := rebalance.New(st).AutoCascade(cmd.Context(), opts.Start)
			if err != nil {
				return engineError("cascade failed", err)
			}
			return outputUpdates(formatterFor(opts.RootOptions, cmd), "cascade", updates)
		},
	}

	cmd.Flags().Uint8Var(&opts.Start, "start", plan.DefaultCascadeStart, "bottom of the cascade band")

	return cmd
}
