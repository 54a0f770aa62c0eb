package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/reqrank/internal/loader"
	"github.com/roach88/reqrank/internal/rebalance"
	"github.com/roach88/reqrank/internal/req"
)

// InsertOptions holds flags for the insert command.
type InsertOptions struct {
	*RootOptions
	ID        string
	Title     string
	Priority  uint8
	AllErrors bool
}

// InsertResult is the JSON payload for the insert command.
type InsertResult struct {
	Inserted      int          `json:"inserted"`
	Redistributed bool         `json:"redistributed"`
	Updates       []req.Update `json:"updates,omitempty"`
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "insert [cue-dir]",
		Short: "Insert requirements, redistributing on collision",
		Long: `Insert requirements into the store. With a directory argument, every
requirement defined in the directory's CUE files is inserted in one
transaction. Without a directory, --title inserts a single ad-hoc
requirement; its ID defaults to a generated UUID.

After the insert commits, a full redistribution runs if any two
requirements now share a priority.

Examples:
  reqrank insert ./requirements --db ./reqs.db
  reqrank insert --title "Audit logging" --priority 200 --db ./reqs.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "requirement ID for ad-hoc insert (default: generated UUID)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title for ad-hoc insert")
	cmd.Flags().Uint8Var(&opts.Priority, "priority", req.DefaultPriority, "priority for ad-hoc insert")
	cmd.Flags().BoolVar(&opts.AllErrors, "all-errors", false, "report every definition error instead of stopping at the first")

	return cmd
}

func runInsert(opts *InsertOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	reqs, err := collectInserts(opts, args, formatter)
	if err != nil {
		return err
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	updates, err := rebalance.New(st).BatchInsert(cmd.Context(), reqs)
	if err != nil {
		return engineError("insert failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(InsertResult{
			Inserted:      len(reqs),
			Redistributed: len(updates) > 0,
			Updates:       updates,
		})
	}

	fmt.Fprintf(formatter.Writer, "%d requirement(s) inserted\n", len(reqs))
	if len(updates) > 0 {
		fmt.Fprintf(formatter.Writer, "priorities redistributed (%d requirement(s) moved)\n", len(updates))
	}
	return nil
}

// collectInserts resolves the command input into the requirement batch:
// a CUE directory or a single ad-hoc definition from flags.
func collectInserts(opts *InsertOptions, args []string, formatter *OutputFormatter) ([]req.Requirement, error) {
	if len(args) == 1 {
		if opts.Title != "" || opts.ID != "" {
			return nil, NewExitError(ExitCommandError, "a CUE directory and --title/--id are mutually exclusive")
		}

		mode := loader.LoadModeFailFast
		if opts.AllErrors {
			mode = loader.LoadModeCollectAll
		}
		result, loadErrs := loader.LoadDir(args[0], mode)
		if len(loadErrs) > 0 {
			for _, loadErr := range loadErrs {
				var le *loader.LoadError
				if errors.As(loadErr, &le) {
					_ = formatter.Error(le.Code, le.Message, nil)
				} else {
					_ = formatter.Error(loader.ErrCodeGeneric, loadErr.Error(), nil)
				}
			}
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("%d definition error(s)", len(loadErrs)))
		}

		formatter.VerboseLog("loaded %d requirement(s) from %d file(s)", len(result.Requirements), result.FileCount)
		return result.Requirements, nil
	}

	if opts.Title == "" {
		return nil, NewExitError(ExitCommandError, "either a CUE directory or --title is required")
	}

	id := opts.ID
	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
	return []req.Requirement{{
		ID:       req.NormalizeID(id),
		Title:    opts.Title,
		Priority: opts.Priority,
	}}, nil
}
