package plan

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/reqrank/internal/rebalance"
	"github.com/roach88/reqrank/internal/req"
)

// RunIDGenerator produces the run identifier stamped into reports.
type RunIDGenerator interface {
	Generate() string
}

// UUIDRunID generates a fresh UUIDv7 per run. UUIDv7 is time-ordered,
// so report filenames and log lines sort chronologically.
type UUIDRunID struct{}

// Generate implements RunIDGenerator.
func (UUIDRunID) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Runner executes plans against a repository.
type Runner struct {
	Engine *rebalance.Engine
	Repo   rebalance.Repository
	RunID  RunIDGenerator
}

// NewRunner creates a runner with a random run-ID generator.
// Tests substitute a fixed generator for golden comparison.
func NewRunner(repo rebalance.Repository) *Runner {
	return &Runner{
		Engine: rebalance.New(repo),
		Repo:   repo,
		RunID:  UUIDRunID{},
	}
}

// Run executes every step of the plan in order and returns the report.
//
// A step failure aborts the run and returns the error; steps already
// committed stay applied (each engine operation is its own
// transaction), and the partial report is returned alongside the error
// for diagnostics.
func (r *Runner) Run(ctx context.Context, p *Plan) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		PlanName: p.Name,
		RunID:    r.RunID.Generate(),
	}

	for i, step := range p.Steps {
		result := StepResult{Index: i + 1, Summary: step.summary()}

		var updates []req.Update
		var err error
		switch step.Op {
		case "redistribute":
			updates, err = r.Engine.Redistribute(ctx)
		case "compress":
			updates, err = r.Engine.Compress(ctx, step.Factor)
		case "normalize":
			updates, err = r.Engine.Normalize(ctx, step.minOr(0), step.maxOr(255))
		case "rebalance":
			updates, err = r.Engine.RebalanceRange(ctx, step.minOr(0), step.maxOr(255))
		case "cascade":
			updates, err = r.Engine.AutoCascade(ctx, step.startOr(DefaultCascadeStart))
		case "resolve":
			var value uint8
			value, err = r.Engine.ResolveCollision(ctx, step.ID, *step.Priority)
			if err == nil {
				result.Value = &value
			}
		case "max_conflict":
			updates, err = r.Engine.HandleMaxConflict(ctx, step.ID)
		default:
			err = fmt.Errorf("unknown op %q", step.Op)
		}
		if err != nil {
			return report, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}

		result.Updates = updates
		report.Steps = append(report.Steps, result)
	}

	final, err := r.Repo.ListByPriority(ctx)
	if err != nil {
		return report, fmt.Errorf("final state: %w", err)
	}
	report.Final = final

	return report, nil
}
