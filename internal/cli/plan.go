package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/plan"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <plan.yaml>",
		Short: "Execute a maintenance plan",
		Long: `Execute an ordered list of rebalancing steps from a YAML plan file
and print the run report. Each step commits in its own transaction; a
step failure aborts the run but leaves earlier steps applied.

Example:
  reqrank plan nightly-cleanup.yaml --db ./reqs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd)
		},
	}
}

func runPlan(opts *RootOptions, path string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	p, err := plan.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load plan", err)
	}
	slog.Debug("plan loaded", "name", p.Name, "steps", len(p.Steps))

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	runner := plan.NewRunner(st)
	report, err := runner.Run(cmd.Context(), p)
	if err != nil {
		if report != nil {
			slog.Error("plan aborted", "plan", p.Name, "run", report.RunID, "completed_steps", len(report.Steps))
		}
		return WrapExitError(ExitFailure, "plan failed", err)
	}
	slog.Info("plan complete", "plan", p.Name, "run", report.RunID)

	formatter := formatterFor(opts, cmd)
	if formatter.Format == "json" {
		return formatter.Success(report)
	}
	fmt.Fprint(formatter.Writer, report.Render())
	return nil
}
