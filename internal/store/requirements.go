package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/reqrank/internal/req"
)

// InsertRequirement inserts a requirement row outside any engine
// transaction. Used for seeding; the engine's batch insert goes through
// WithTx instead.
func (s *Store) InsertRequirement(ctx context.Context, r req.Requirement) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("insert requirement: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requirements (id, title, description, priority)
		VALUES (?, ?, ?, ?)
	`, r.ID, r.Title, r.Description, r.Priority)
	if err != nil {
		return fmt.Errorf("insert requirement: %w", err)
	}
	return nil
}

// GetRequirement retrieves a single requirement by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetRequirement(ctx context.Context, id string) (req.Requirement, error) {
	var r req.Requirement
	var priority int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, priority
		FROM requirements
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Title, &r.Description, &priority)
	if err != nil {
		return req.Requirement{}, err
	}
	r.Priority = uint8(priority)
	return r, nil
}

// GetPriority returns one requirement's current priority.
// ok is false when no requirement has that ID.
func (s *Store) GetPriority(ctx context.Context, id string) (uint8, bool, error) {
	var priority int
	err := s.db.QueryRowContext(ctx, `
		SELECT priority FROM requirements WHERE id = ?
	`, id).Scan(&priority)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get priority: %w", err)
	}
	return uint8(priority), true, nil
}

// ListByPriority returns the full requirement set in deterministic
// order: priority ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) when the set is empty.
func (s *Store) ListByPriority(ctx context.Context) ([]req.Requirement, error) {
	return s.ListRange(ctx, req.MinPriority, req.MaxPriority)
}

// ListRange returns requirements with min <= priority <= max in
// deterministic order: priority ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) when no requirement falls in range.
func (s *Store) ListRange(ctx context.Context, min, max uint8) ([]req.Requirement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, priority
		FROM requirements
		WHERE priority >= ? AND priority <= ?
		ORDER BY priority ASC, id COLLATE BINARY ASC
	`, min, max)
	if err != nil {
		return nil, fmt.Errorf("query requirements: %w", err)
	}
	defer rows.Close()

	var reqs []req.Requirement
	for rows.Next() {
		var r req.Requirement
		var priority int
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &priority); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		r.Priority = uint8(priority)
		reqs = append(reqs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requirements: %w", err)
	}

	// Return empty slice instead of nil
	if reqs == nil {
		reqs = []req.Requirement{}
	}

	return reqs, nil
}

// PriorityBounds returns the current minimum and maximum priority.
// ok is false when the requirement set is empty.
func (s *Store) PriorityBounds(ctx context.Context) (min, max uint8, ok bool, err error) {
	var minVal, maxVal sql.NullInt64
	err = s.db.QueryRowContext(ctx, `
		SELECT MIN(priority), MAX(priority) FROM requirements
	`).Scan(&minVal, &maxVal)
	if err != nil {
		return 0, 0, false, fmt.Errorf("priority bounds: %w", err)
	}
	if !minVal.Valid || !maxVal.Valid {
		return 0, 0, false, nil
	}
	return uint8(minVal.Int64), uint8(maxVal.Int64), true, nil
}

// CountAtPriority counts requirements holding p. A non-empty excludeID
// is left out of the count.
func (s *Store) CountAtPriority(ctx context.Context, p uint8, excludeID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM requirements
		WHERE priority = ? AND (? = '' OR id <> ?)
	`, p, excludeID, excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count at priority: %w", err)
	}
	return count, nil
}

// HasDuplicatePriorities reports whether any priority value is held by
// more than one requirement.
func (s *Store) HasDuplicatePriorities(ctx context.Context) (bool, error) {
	var dup int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM requirements
			GROUP BY priority
			HAVING COUNT(*) > 1
		)
	`).Scan(&dup)
	if err != nil {
		return false, fmt.Errorf("check duplicate priorities: %w", err)
	}
	return dup > 0, nil
}

// DuplicateGroup describes one priority value held by several requirements.
type DuplicateGroup struct {
	Priority uint8    `json:"priority"`
	IDs      []string `json:"ids"`
}

// DuplicatePriorityGroups returns every collision in the requirement
// set, ordered by priority; IDs within a group are ordered byte-wise.
// Used by the status report.
func (s *Store) DuplicatePriorityGroups(ctx context.Context) ([]DuplicateGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT priority, id
		FROM requirements
		WHERE priority IN (
			SELECT priority FROM requirements
			GROUP BY priority
			HAVING COUNT(*) > 1
		)
		ORDER BY priority ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query duplicate groups: %w", err)
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var priority int
		var id string
		if err := rows.Scan(&priority, &id); err != nil {
			return nil, fmt.Errorf("scan duplicate group: %w", err)
		}
		p := uint8(priority)
		if len(groups) == 0 || groups[len(groups)-1].Priority != p {
			groups = append(groups, DuplicateGroup{Priority: p})
		}
		groups[len(groups)-1].IDs = append(groups[len(groups)-1].IDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duplicate groups: %w", err)
	}

	if groups == nil {
		groups = []DuplicateGroup{}
	}

	return groups, nil
}
