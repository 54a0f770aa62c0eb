package rebalance

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/reqrank/internal/req"
)

// Engine performs priority rebalancing against a Repository.
//
// The engine is synchronous and single-caller: each operation reads the
// current priorities, computes replacements in memory, and writes them
// back inside one repository transaction.
type Engine struct {
	repo Repository
}

// New creates an engine bound to a repository.
func New(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// Redistribute assigns new priorities evenly spaced across [0,255],
// preserving the current order (ties broken by ID). With n requirements,
// rank i receives floor(255*i/(n-1)); a single requirement receives 128.
//
// Returns the applied updates. An empty requirement set returns an empty
// slice without touching the store.
func (e *Engine) Redistribute(ctx context.Context) ([]req.Update, error) {
	reqs, err := e.repo.ListByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("redistribute: %w", err)
	}
	if len(reqs) == 0 {
		return []req.Update{}, nil
	}

	n := len(reqs)
	updates := make([]req.Update, n)
	for i, r := range reqs {
		np := req.DefaultPriority // midpoint for a single requirement
		if n > 1 {
			np = uint8(255 * i / (n - 1))
		}
		updates[i] = req.Update{ID: r.ID, OldPriority: r.Priority, NewPriority: np}
	}

	if err := e.applyUpdates(ctx, "redistribute", updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// Compress scales every priority by factor, shrinking the whole range
// toward zero to make room at the top for new high-priority entries.
// The factor must lie in the open interval (0,1).
//
// Compression preserves relative order but may introduce new collisions
// when distinct priorities floor to the same value. That is an accepted
// trade-off: callers re-run collision resolution only when they actually
// need distinct values.
func (e *Engine) Compress(ctx context.Context, factor float64) ([]req.Update, error) {
	if factor <= 0 || factor >= 1 {
		return nil, newInvalidFactorError("compress", factor)
	}

	reqs, err := e.repo.ListByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if len(reqs) == 0 {
		return []req.Update{}, nil
	}

	updates := make([]req.Update, len(reqs))
	for i, r := range reqs {
		np := uint8(float64(r.Priority) * factor) // truncation == floor for non-negative values
		updates[i] = req.Update{ID: r.ID, OldPriority: r.Priority, NewPriority: np}
	}

	if err := e.applyUpdates(ctx, "compress", updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// Normalize linearly maps the current [min,max] priority spread onto the
// target range [minVal,maxVal]. When all requirements share one priority
// they are all set to the midpoint of the target range instead.
//
// Integer (floor) division throughout; endpoints of the current
// distribution map exactly to the endpoints of the target range.
func (e *Engine) Normalize(ctx context.Context, minVal, maxVal uint8) ([]req.Update, error) {
	if minVal > maxVal {
		return nil, newInvalidRangeError("normalize", minVal, maxVal)
	}

	curMin, curMax, ok, err := e.repo.PriorityBounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	if !ok {
		return []req.Update{}, nil
	}

	reqs, err := e.repo.ListByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	updates := make([]req.Update, len(reqs))
	if curMin == curMax {
		mid := uint8((int(minVal) + int(maxVal)) / 2)
		for i, r := range reqs {
			updates[i] = req.Update{ID: r.ID, OldPriority: r.Priority, NewPriority: mid}
		}
	} else {
		span := int(curMax) - int(curMin)
		width := int(maxVal) - int(minVal)
		for i, r := range reqs {
			np := uint8(int(minVal) + (int(r.Priority)-int(curMin))*width/span)
			updates[i] = req.Update{ID: r.ID, OldPriority: r.Priority, NewPriority: np}
		}
	}

	if err := e.applyUpdates(ctx, "normalize", updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// FindGap suggests an insertion priority near target. The suggestion is
// a heuristic "best available slot", not an exact-match guarantee - the
// caller decides whether to use it.
//
// Rules, in order:
//  1. At or beyond the current edges, target is returned directly.
//  2. If target falls strictly between two adjacent existing priorities
//     it already fits and is returned unchanged, even when a larger gap
//     exists elsewhere.
//  3. Otherwise the midpoint of the single largest gap is returned.
//
// FindGap never mutates the store.
func (e *Engine) FindGap(ctx context.Context, target uint8) (uint8, error) {
	reqs, err := e.repo.ListByPriority(ctx)
	if err != nil {
		return 0, fmt.Errorf("find gap: %w", err)
	}
	if len(reqs) == 0 {
		return target, nil
	}

	priorities := make([]uint8, len(reqs))
	for i, r := range reqs {
		priorities[i] = r.Priority
	}

	if target <= priorities[0] || target >= priorities[len(priorities)-1] {
		return target, nil
	}

	for i := 0; i < len(priorities)-1; i++ {
		if priorities[i] < target && target < priorities[i+1] {
			return target, nil
		}
	}

	bestGap := 0
	best := target
	for i := 0; i < len(priorities)-1; i++ {
		gap := int(priorities[i+1]) - int(priorities[i])
		if gap > bestGap {
			bestGap = gap
			best = uint8((int(priorities[i]) + int(priorities[i+1])) / 2)
		}
	}
	return best, nil
}

// ResolveCollision returns a collision-free priority for the requirement
// id, starting from desired. If no other requirement holds desired it is
// returned unchanged. Otherwise the engine searches outward from desired
// with alternating +offset/-offset steps, bounded to [0,255], and
// returns the first value held by zero requirements.
//
// When all 256 values are taken the engine falls back to a full
// Redistribute and returns desired; the post-redistribution state has no
// duplicate priorities, so the caller's next write finds a free slot.
// The fallback mutates every requirement, not just id.
func (e *Engine) ResolveCollision(ctx context.Context, id string, desired uint8) (uint8, error) {
	count, err := e.repo.CountAtPriority(ctx, desired, id)
	if err != nil {
		return 0, fmt.Errorf("resolve collision: %w", err)
	}
	if count == 0 {
		return desired, nil
	}

	for offset := 1; offset <= 255; offset++ {
		for _, direction := range []int{1, -1} {
			candidate := int(desired) + offset*direction
			if candidate < 0 || candidate > 255 {
				continue
			}
			count, err := e.repo.CountAtPriority(ctx, uint8(candidate), "")
			if err != nil {
				return 0, fmt.Errorf("resolve collision: %w", err)
			}
			if count == 0 {
				return uint8(candidate), nil
			}
		}
	}

	// Priority space exhausted: recover by spreading everything out.
	if _, err := e.Redistribute(ctx); err != nil {
		return 0, fmt.Errorf("resolve collision: fallback: %w", err)
	}
	return desired, nil
}

// HandleMaxConflict makes room at the top for newID. If no requirement
// holds 255 it is a no-op. Otherwise every current holder of 255 (in ID
// order) is cascaded downward - the i-th holder moves to 255-(i+1),
// clamped at 0 - and newID is then set to 255. Requirements not already
// at the maximum are untouched.
//
// All shifts plus the final set happen in one transaction.
func (e *Engine) HandleMaxConflict(ctx context.Context, newID string) ([]req.Update, error) {
	holders, err := e.repo.ListRange(ctx, req.MaxPriority, req.MaxPriority)
	if err != nil {
		return nil, fmt.Errorf("handle max conflict: %w", err)
	}
	if len(holders) == 0 {
		return []req.Update{}, nil
	}

	oldPriority, exists, err := e.repo.GetPriority(ctx, newID)
	if err != nil {
		return nil, fmt.Errorf("handle max conflict: %w", err)
	}

	var updates []req.Update
	for i, r := range holders {
		if r.ID == newID {
			continue
		}
		down := 255 - (i + 1)
		if down < 0 {
			down = 0
		}
		updates = append(updates, req.Update{ID: r.ID, OldPriority: r.Priority, NewPriority: uint8(down)})
	}
	if exists {
		updates = append(updates, req.Update{ID: newID, OldPriority: oldPriority, NewPriority: req.MaxPriority})
	}

	txErr := e.repo.WithTx(ctx, func(tx Tx) error {
		for _, u := range updates {
			if err := tx.SetPriority(ctx, u.ID, u.NewPriority); err != nil {
				return err
			}
		}
		if !exists {
			// Mirror the holders' shift even when newID does not exist;
			// the final set is a silent no-op in that case.
			return tx.SetPriority(ctx, newID, req.MaxPriority)
		}
		return nil
	})
	if txErr != nil {
		return nil, wrapTxError("handle_max_conflict", txErr)
	}
	return updates, nil
}

// AutoCascade redistributes only the requirements with priority >= start
// evenly across [start,255], leaving everything below start untouched.
// The subset is enumerated by priority descending (ties by ID); the
// first entry lands on 255. A single-element subset is pinned to 255;
// an empty subset is a no-op.
func (e *Engine) AutoCascade(ctx context.Context, start uint8) ([]req.Update, error) {
	subset, err := e.repo.ListRange(ctx, start, req.MaxPriority)
	if err != nil {
		return nil, fmt.Errorf("auto cascade: %w", err)
	}
	if len(subset) == 0 {
		return []req.Update{}, nil
	}

	// Highest first, ties by ID ascending.
	slices.SortStableFunc(subset, func(a, b req.Requirement) int {
		if a.Priority != b.Priority {
			return int(b.Priority) - int(a.Priority)
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	n := len(subset)
	width := 255 - int(start)
	updates := make([]req.Update, n)
	for i, r := range subset {
		np := req.MaxPriority
		if n > 1 {
			np = uint8(255 - i*width/(n-1))
		}
		updates[i] = req.Update{ID: r.ID, OldPriority: r.Priority, NewPriority: np}
	}

	if err := e.applyUpdates(ctx, "auto_cascade", updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// RebalanceRange redistributes only the requirements inside the window
// [min,max] evenly across that window, leaving requirements outside the
// window untouched. A subset of size <= 1 is a no-op.
func (e *Engine) RebalanceRange(ctx context.Context, min, max uint8) ([]req.Update, error) {
	if min > max {
		return nil, newInvalidRangeError("rebalance_range", min, max)
	}

	subset, err := e.repo.ListRange(ctx, min, max)
	if err != nil {
		return nil, fmt.Errorf("rebalance range: %w", err)
	}
	if len(subset) <= 1 {
		return []req.Update{}, nil
	}

	n := len(subset)
	width := int(max) - int(min)
	updates := make([]req.Update, n)
	for i, r := range subset {
		np := uint8(int(min) + i*width/(n-1))
		updates[i] = req.Update{ID: r.ID, OldPriority: r.Priority, NewPriority: np}
	}

	if err := e.applyUpdates(ctx, "rebalance_range", updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// BatchInsert inserts the given requirements in one transaction, then
// checks the whole set for duplicate priorities. If any exist, a full
// Redistribute runs as a separate, subsequent operation and its updates
// are returned; otherwise the returned slice is empty.
//
// The insert commits before the redistribution starts: the insert must
// be durable even if the cleanup is deferred or fails. An empty input is
// a no-op.
func (e *Engine) BatchInsert(ctx context.Context, reqs []req.Requirement) ([]req.Update, error) {
	if len(reqs) == 0 {
		return []req.Update{}, nil
	}

	txErr := e.repo.WithTx(ctx, func(tx Tx) error {
		for _, r := range reqs {
			if err := r.Validate(); err != nil {
				return err
			}
			if err := tx.InsertRequirement(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, wrapTxError("batch_insert", txErr)
	}

	dup, err := e.repo.HasDuplicatePriorities(ctx)
	if err != nil {
		return nil, fmt.Errorf("batch insert: %w", err)
	}
	if !dup {
		return []req.Update{}, nil
	}
	return e.Redistribute(ctx)
}

// applyUpdates writes a computed update set inside one transaction.
func (e *Engine) applyUpdates(ctx context.Context, op string, updates []req.Update) error {
	err := e.repo.WithTx(ctx, func(tx Tx) error {
		for _, u := range updates {
			if err := tx.SetPriority(ctx, u.ID, u.NewPriority); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapTxError(op, err)
	}
	return nil
}
