package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/rebalance"
)

// ResolveResult is the JSON payload for the resolve command.
type ResolveResult struct {
	ID       string `json:"id"`
	Desired  uint8  `json:"desired"`
	Resolved uint8  `json:"resolved"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id> <priority>",
		Short: "Find a collision-free priority for a requirement",
		Long: `Return a priority for the requirement that no other requirement
holds, starting from the desired value and searching outward. If every
value in [0,255] is taken, the whole set is redistributed first and the
desired value is returned.

Example:
  reqrank resolve auth_mfa 200 --db ./reqs.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			desired, err := parsePriority(args[1])
			if err != nil {
				return err
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			resolved, err := rebalance.New(st).ResolveCollision(cmd.Context(), args[0], desired)
			if err != nil {
				return engineError("resolve failed", err)
			}

			formatter := formatterFor(rootOpts, cmd)
			if formatter.Format == "json" {
				return formatter.Success(ResolveResult{ID: args[0], Desired: desired, Resolved: resolved})
			}
			fmt.Fprintln(formatter.Writer, resolved)
			return nil
		},
	}
}
