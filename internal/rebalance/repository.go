package rebalance

import (
	"context"

	"github.com/roach88/reqrank/internal/req"
)

// Repository is the storage surface the engine needs. The engine never
// builds query strings; it works against this typed interface so the
// algorithms stay independent of the storage technology and are
// unit-testable in memory.
//
// List results must be ordered by priority ascending, then ID ascending
// with a byte-wise comparison, so every operation is deterministic.
type Repository interface {
	// ListByPriority returns the full requirement set in deterministic order.
	ListByPriority(ctx context.Context) ([]req.Requirement, error)

	// ListRange returns requirements with min <= priority <= max in
	// deterministic order.
	ListRange(ctx context.Context, min, max uint8) ([]req.Requirement, error)

	// PriorityBounds returns the current minimum and maximum priority.
	// ok is false when the requirement set is empty.
	PriorityBounds(ctx context.Context) (min, max uint8, ok bool, err error)

	// CountAtPriority counts requirements holding p. A non-empty
	// excludeID is left out of the count.
	CountAtPriority(ctx context.Context, p uint8, excludeID string) (int, error)

	// GetPriority returns one requirement's current priority.
	// ok is false when no requirement has that ID.
	GetPriority(ctx context.Context, id string) (priority uint8, ok bool, err error)

	// HasDuplicatePriorities reports whether any priority value is held
	// by more than one requirement.
	HasDuplicatePriorities(ctx context.Context) (bool, error)

	// WithTx runs fn inside a single transaction. A nil return from fn
	// commits; any error rolls back every write fn performed and is
	// returned unchanged.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the mutation surface available inside a repository transaction.
type Tx interface {
	// SetPriority updates one requirement's priority.
	SetPriority(ctx context.Context, id string, priority uint8) error

	// InsertRequirement creates a new requirement row.
	InsertRequirement(ctx context.Context, r req.Requirement) error
}
