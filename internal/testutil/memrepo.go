// Package testutil provides deterministic test doubles for the
// rebalancing engine: an in-memory repository with rollback semantics
// and a fixed run-ID generator for golden snapshot comparison.
package testutil

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/roach88/reqrank/internal/rebalance"
	"github.com/roach88/reqrank/internal/req"
)

// MemRepo is an in-memory rebalance.Repository.
//
// Transactions snapshot the requirement map on entry and restore it when
// the transaction function returns an error, so rollback behavior can be
// tested without a database.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex, though engine usage is single-threaded.
type MemRepo struct {
	mu   sync.Mutex
	reqs map[string]req.Requirement

	// FailAfterWrites, when > 0, makes the Nth write inside the current
	// transaction return an injected error. Used to test rollback.
	FailAfterWrites int

	// TxCount counts started transactions.
	TxCount int

	writes int // writes inside the current transaction
}

// NewMemRepo creates a repository seeded with the given requirements.
func NewMemRepo(seed ...req.Requirement) *MemRepo {
	m := &MemRepo{reqs: make(map[string]req.Requirement, len(seed))}
	for _, r := range seed {
		m.reqs[r.ID] = r
	}
	return m
}

// Snapshot returns the current requirement set in deterministic order.
func (m *MemRepo) Snapshot() []req.Requirement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedLocked()
}

// ListByPriority implements rebalance.Repository.
func (m *MemRepo) ListByPriority(ctx context.Context) ([]req.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedLocked(), nil
}

// ListRange implements rebalance.Repository.
func (m *MemRepo) ListRange(ctx context.Context, min, max uint8) ([]req.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []req.Requirement
	for _, r := range m.sortedLocked() {
		if r.Priority >= min && r.Priority <= max {
			out = append(out, r)
		}
	}
	if out == nil {
		out = []req.Requirement{}
	}
	return out, nil
}

// PriorityBounds implements rebalance.Repository.
func (m *MemRepo) PriorityBounds(ctx context.Context) (min, max uint8, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.reqs) == 0 {
		return 0, 0, false, nil
	}
	min, max = req.MaxPriority, req.MinPriority
	for _, r := range m.reqs {
		if r.Priority < min {
			min = r.Priority
		}
		if r.Priority > max {
			max = r.Priority
		}
	}
	return min, max, true, nil
}

// CountAtPriority implements rebalance.Repository.
func (m *MemRepo) CountAtPriority(ctx context.Context, p uint8, excludeID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.reqs {
		if r.Priority == p && (excludeID == "" || r.ID != excludeID) {
			count++
		}
	}
	return count, nil
}

// GetPriority implements rebalance.Repository.
func (m *MemRepo) GetPriority(ctx context.Context, id string) (uint8, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	return r.Priority, ok, nil
}

// HasDuplicatePriorities implements rebalance.Repository.
func (m *MemRepo) HasDuplicatePriorities(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[uint8]bool, len(m.reqs))
	for _, r := range m.reqs {
		if seen[r.Priority] {
			return true, nil
		}
		seen[r.Priority] = true
	}
	return false, nil
}

// WithTx implements rebalance.Repository. The requirement map is
// snapshotted on entry and restored when fn returns an error.
func (m *MemRepo) WithTx(ctx context.Context, fn func(tx rebalance.Tx) error) error {
	m.mu.Lock()
	m.TxCount++
	m.writes = 0
	snapshot := maps.Clone(m.reqs)
	m.mu.Unlock()

	if err := fn(&memTx{repo: m}); err != nil {
		m.mu.Lock()
		m.reqs = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

// sortedLocked returns requirements ordered by priority, then ID with a
// byte-wise comparison. Callers must hold m.mu.
func (m *MemRepo) sortedLocked() []req.Requirement {
	out := make([]req.Requirement, 0, len(m.reqs))
	for _, r := range m.reqs {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b req.Requirement) int {
		if a.Priority != b.Priority {
			return int(a.Priority) - int(b.Priority)
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// memTx is the in-memory transaction handle.
type memTx struct {
	repo *MemRepo
}

// SetPriority implements rebalance.Tx. Updating an unknown ID is a
// silent no-op, matching the store's UPDATE semantics.
func (t *memTx) SetPriority(ctx context.Context, id string, priority uint8) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if err := t.repo.maybeFailLocked(); err != nil {
		return err
	}
	r, ok := t.repo.reqs[id]
	if !ok {
		return nil
	}
	r.Priority = priority
	t.repo.reqs[id] = r
	return nil
}

// InsertRequirement implements rebalance.Tx.
func (t *memTx) InsertRequirement(ctx context.Context, r req.Requirement) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if err := t.repo.maybeFailLocked(); err != nil {
		return err
	}
	if _, exists := t.repo.reqs[r.ID]; exists {
		return fmt.Errorf("requirement %q already exists", r.ID)
	}
	t.repo.reqs[r.ID] = r
	return nil
}

// maybeFailLocked fires the injected failure when configured.
// Callers must hold repo.mu.
func (m *MemRepo) maybeFailLocked() error {
	m.writes++
	if m.FailAfterWrites > 0 && m.writes >= m.FailAfterWrites {
		return fmt.Errorf("injected write failure at write %d", m.writes)
	}
	return nil
}
