package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/reqrank/internal/req"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedRequirements inserts requirements with the given id/priority pairs.
func seedRequirements(t *testing.T, s *Store, reqs ...req.Requirement) {
	t.Helper()
	for _, r := range reqs {
		if err := s.InsertRequirement(context.Background(), r); err != nil {
			t.Fatalf("InsertRequirement(%q) failed: %v", r.ID, err)
		}
	}
}

// testRequirement creates a requirement with minimal required fields.
func testRequirement(id string, priority uint8) req.Requirement {
	return req.Requirement{
		ID:       id,
		Title:    "Requirement " + id,
		Priority: priority,
	}
}
