package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/rebalance"
)

// NewCompressCommand creates the compress command.
func NewCompressCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compress <factor>",
		Short: "Scale all priorities toward zero",
		Long: `Multiply every priority by a factor in the open interval (0,1),
shrinking the whole distribution toward zero to free up the top of the
range for new high-priority requirements.

Example:
  reqrank compress 0.5 --db ./reqs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			factor, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "factor must be a number", err)
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			updates, err := rebalance.New(st).Compress(cmd.Context(), factor)
			if err != nil {
				return engineError("compress failed", err)
			}
			return outputUpdates(formatterFor(rootOpts, cmd), "compress", updates)
		},
	}
}
