package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/reqrank/internal/rebalance"
	"github.com/roach88/reqrank/internal/req"
)

// Compile-time check that the store satisfies the engine's repository
// contract.
var _ rebalance.Repository = (*Store)(nil)

// WithTx runs fn inside a single SQL transaction. A nil return from fn
// commits; any error rolls back every write fn performed and is
// returned unchanged. No partially applied rebalance is ever observable
// by other readers.
func (s *Store) WithTx(ctx context.Context, fn func(tx rebalance.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback() // No-op if committed

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Tx is the mutation handle handed to WithTx callbacks.
type Tx struct {
	tx *sql.Tx
}

// SetPriority updates one requirement's priority. Updating an unknown
// ID matches zero rows and is a silent no-op, mirroring plain UPDATE
// semantics.
func (t *Tx) SetPriority(ctx context.Context, id string, priority uint8) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE requirements SET priority = ? WHERE id = ?
	`, priority, id)
	if err != nil {
		return fmt.Errorf("set priority: %w", err)
	}
	return nil
}

// InsertRequirement creates a new requirement row inside the transaction.
func (t *Tx) InsertRequirement(ctx context.Context, r req.Requirement) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO requirements (id, title, description, priority)
		VALUES (?, ?, ?, ?)
	`, r.ID, r.Title, r.Description, r.Priority)
	if err != nil {
		return fmt.Errorf("insert requirement: %w", err)
	}
	return nil
}
