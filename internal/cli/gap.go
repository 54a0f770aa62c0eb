package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/rebalance"
)

// GapResult is the JSON payload for the gap command.
type GapResult struct {
	Target     uint8 `json:"target"`
	Suggestion uint8 `json:"suggestion"`
}

// NewGapCommand creates the gap command.
func NewGapCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gap <target>",
		Short: "Suggest an insertion priority near a target",
		Long: `Suggest a priority for a new requirement near the target value. The
target is returned directly when it sits outside the occupied range or
already fits between two existing priorities; otherwise the midpoint of
the largest gap is suggested. Read-only; nothing is modified.

Example:
  reqrank gap 120 --db ./reqs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parsePriority(args[0])
			if err != nil {
				return err
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			suggestion, err := rebalance.New(st).FindGap(cmd.Context(), target)
			if err != nil {
				return engineError("gap search failed", err)
			}

			formatter := formatterFor(rootOpts, cmd)
			if formatter.Format == "json" {
				return formatter.Success(GapResult{Target: target, Suggestion: suggestion})
			}
			fmt.Fprintln(formatter.Writer, suggestion)
			return nil
		},
	}
}

// parsePriority parses a command-line priority argument into [0,255].
func parsePriority(arg string) (uint8, error) {
	v, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "priority must be an integer in [0,255]", err)
	}
	return uint8(v), nil
}
