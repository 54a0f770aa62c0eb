package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/rebalance"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	Min uint8
	Max uint8
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Linearly map priorities onto a target range",
		Long: `Linearly map the current priority spread onto [--min,--max]. The
lowest current priority lands on --min and the highest on --max; when
every requirement shares one priority they all move to the midpoint of
the target range.

Example:
  reqrank normalize --min 50 --max 200 --db ./reqs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(opts.RootOptions)
			if err != nil {
				return err
			}
			defer closeStore(st)

			updates, err := rebalance.New(st).Normalize(cmd.Context(), opts.Min, opts.Max)
			if err != nil {
				return engineError("normalize failed", err)
			}
			return outputUpdates(formatterFor(opts.RootOptions, cmd), "normalize", updates)
		},
	}

	cmd.Flags().Uint8Var(&opts.Min, "min", 0, "bottom of the target range")
	cmd.Flags().Uint8Var(&opts.Max, "max", 255, "top of the target range")

	return cmd
}
