package cli

import (
	"fmt"

	"github.com/roach88/reqrank/internal/req"
)

// UpdateReport is the JSON payload for commands that apply priority
// updates.
type UpdateReport struct {
	Op      string       `json:"op"`
	Changed int          `json:"changed"`
	Updates []req.Update `json:"updates"`
}

// outputUpdates renders an applied update set in the configured format.
func outputUpdates(f *OutputFormatter, op string, updates []req.Update) error {
	if f.Format == "json" {
		return f.Success(UpdateReport{
			Op:      op,
			Changed: len(updates),
			Updates: updates,
		})
	}

	if len(updates) == 0 {
		fmt.Fprintln(f.Writer, "no changes")
		return nil
	}
	for _, u := range updates {
		fmt.Fprintf(f.Writer, "%s: %d -> %d\n", u.ID, u.OldPriority, u.NewPriority)
	}
	fmt.Fprintf(f.Writer, "%d requirement(s) updated\n", len(updates))
	return nil
}
