package plan

import (
	"fmt"
	"strings"

	"github.com/roach88/reqrank/internal/req"
)

// Report captures a complete plan run: every step's updates plus the
// final requirement table. All ordering is deterministic, so reports
// are suitable for golden comparison.
type Report struct {
	PlanName string            `json:"plan_name"`
	RunID    string            `json:"run_id"`
	Steps    []StepResult      `json:"steps"`
	Final    []req.Requirement `json:"final"`
}

// StepResult records one executed step.
type StepResult struct {
	Index   int          `json:"index"`
	Summary string       `json:"summary"`
	Updates []req.Update `json:"updates,omitempty"`

	// Value is set for value-returning steps (resolve).
	Value *uint8 `json:"value,omitempty"`
}

// Render produces the human-readable report. The output is stable for
// a given fixture and run ID.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "plan: %s\n", r.PlanName)
	fmt.Fprintf(&b, "run: %s\n", r.RunID)

	for _, s := range r.Steps {
		fmt.Fprintf(&b, "\nstep %d: %s\n", s.Index, s.Summary)
		if s.Value != nil {
			fmt.Fprintf(&b, "  result: %d\n", *s.Value)
		}
		for _, u := range s.Updates {
			fmt.Fprintf(&b, "  %s: %d -> %d\n", u.ID, u.OldPriority, u.NewPriority)
		}
		if s.Value == nil && len(s.Updates) == 0 {
			b.WriteString("  (no changes)\n")
		}
	}

	b.WriteString("\nfinal state:\n")
	for _, q := range r.Final {
		fmt.Fprintf(&b, "  %3d  %s\n", q.Priority, q.ID)
	}
	return b.String()
}
