package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/rebalance"
)

// NewPromoteCommand creates the promote command.
func NewPromoteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <id>",
		Short: "Move a requirement to the maximum priority",
		Long: `Set the requirement to priority 255. Current holders of 255 are
cascaded downward first (254, 253, ...) so the promoted requirement
takes the top slot alone. A no-op when nothing currently holds 255.

Example:
  reqrank promote auth_mfa --db ./reqs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			updates, err := rebalance.New(st).HandleMaxConflict(cmd.Context(), args[0])
			if err != nil {
				return engineError("promote failed", err)
			}
			return outputUpdates(formatterFor(rootOpts, cmd), "promote", updates)
		},
	}
}
