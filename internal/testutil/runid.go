package testutil

// FixedRunID generates the same run ID every time.
//
// This enables deterministic plan execution and golden snapshot
// comparison: the same plan against the same fixture produces a
// byte-identical report.
//
// Thread-safety: FixedRunID is stateless and safe for concurrent use.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a fixed run-ID generator.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed run ID.
//
// Implements plan.RunIDGenerator.
func (g *FixedRunID) Generate() string {
	return g.id
}
