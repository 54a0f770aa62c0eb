package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/req"
	"github.com/roach88/reqrank/internal/store"
)

// StatusResult is the JSON payload for the status command.
type StatusResult struct {
	Count        int                    `json:"count"`
	MinPriority  *uint8                 `json:"min_priority,omitempty"`
	MaxPriority  *uint8                 `json:"max_priority,omitempty"`
	Requirements []req.Requirement      `json:"requirements"`
	Collisions   []store.DuplicateGroup `json:"collisions"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the requirement set and its collisions",
		Long: `List every requirement ordered by priority, report the occupied
priority bounds, and flag priority values held by more than one
requirement. Read-only.

Example:
  reqrank status --db ./reqs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	reqs, err := st.ListByPriority(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list requirements", err)
	}
	groups, err := st.DuplicatePriorityGroups(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to check collisions", err)
	}

	formatter := formatterFor(opts, cmd)
	if formatter.Format == "json" {
		result := StatusResult{
			Count:        len(reqs),
			Requirements: reqs,
			Collisions:   groups,
		}
		if len(reqs) > 0 {
			result.MinPriority = &reqs[0].Priority
			result.MaxPriority = &reqs[len(reqs)-1].Priority
		}
		return formatter.Success(result)
	}

	if len(reqs) == 0 {
		fmt.Fprintln(formatter.Writer, "no requirements")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "%d requirement(s), priorities %d..%d\n",
		len(reqs), reqs[0].Priority, reqs[len(reqs)-1].Priority)
	for _, r := range reqs {
		if r.Title != "" {
			fmt.Fprintf(formatter.Writer, "  %3d  %s  %s\n", r.Priority, r.ID, r.Title)
		} else {
			fmt.Fprintf(formatter.Writer, "  %3d  %s\n", r.Priority, r.ID)
		}
	}

	if len(groups) > 0 {
		fmt.Fprintln(formatter.Writer, "\ncollisions:")
		for _, g := range groups {
			fmt.Fprintf(formatter.Writer, "  %3d: %s\n", g.Priority, strings.Join(g.IDs, ", "))
		}
	}
	return nil
}
