// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ordering maintains a strict total order over sibling rows.
//
// Every orderable table carries an integer sort_order column. Siblings —
// all rows of a table, or all rows sharing one parent id — are ordered by
// ascending sort_order. New rows are assigned max(sort_order)+1 inside
// the insert transaction, and reordering swaps the sort_order of a row
// with its immediate neighbor inside a transaction, so a partial swap is
// never observable. Each entity store instantiates one Scope instead of
// duplicating the assign/swap logic per table.
package ordering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the row being moved does not exist.
	// A missing neighbor is a silent no-op, not an error.
	ErrNotFound = errors.New("ordering: row not found")

	// ErrConflict is returned when a move keeps colliding with concurrent
	// writers after all retries. The operation can simply be retried.
	ErrConflict = errors.New("ordering: transaction conflict")
)

// maxMoveAttempts bounds retries on serialization failures and deadlocks.
const maxMoveAttempts = 3

// Scope identifies the set of rows that compete for sort_order values.
// It is the single source of truth for "what counts as a sibling": both
// order assignment on create and neighbor lookup on move filter by the
// same predicate, so orders can never be compared across scopes.
//
// Table and ParentCol are compile-time constants supplied by the entity
// stores; they are interpolated into SQL and must never carry user input.
type Scope struct {
	Table     string
	ParentCol string    // empty for globally scoped tables
	ParentID  uuid.UUID // set when ParentCol is non-empty
}

// Global returns the scope covering every row of a table.
func Global(table string) Scope {
	return Scope{Table: table}
}

// PerParent returns the scope covering rows of table that share one
// parent id in parentCol.
func PerParent(table, parentCol string, parentID uuid.UUID) Scope {
	return Scope{Table: table, ParentCol: parentCol, ParentID: parentID}
}

// Queryer is the subset of database/sql satisfied by both *sql.DB and
// *sql.Tx, so order assignment can run inside the insert transaction.
type Queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NextOrder computes the sort_order for a new row in the scope:
// max(existing)+1, or 1 for an empty scope. Call it on the transaction
// that performs the insert; combined with the deferred unique constraint
// on (scope, sort_order) this closes the concurrent-create race.
func NextOrder(ctx context.Context, q Queryer, scope Scope) (int, error) {
	var max int
	var err error
	if scope.ParentCol == "" {
		err = q.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT COALESCE(MAX(sort_order), 0) FROM %s`, scope.Table),
		).Scan(&max)
	} else {
		err = q.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT COALESCE(MAX(sort_order), 0) FROM %s WHERE %s = $1`,
				scope.Table, scope.ParentCol),
			scope.ParentID,
		).Scan(&max)
	}
	if err != nil {
		return 0, fmt.Errorf("next order for %s: %w", scope.Table, err)
	}
	return max + 1, nil
}

// MoveUp swaps the row with the sibling whose sort_order is exactly one
// less. No-op if the row is already first in its scope or the slot below
// is a deletion gap. Returns ErrNotFound if the row itself is missing.
func MoveUp(ctx context.Context, db *sql.DB, scope Scope, id uuid.UUID) error {
	return move(ctx, db, scope, id, -1)
}

// MoveDown swaps the row with the sibling whose sort_order is exactly one
// greater. No-op at the bottom of the scope or across a deletion gap.
func MoveDown(ctx context.Context, db *sql.DB, scope Scope, id uuid.UUID) error {
	return move(ctx, db, scope, id, +1)
}

// move runs the swap transaction, retrying a bounded number of times when
// concurrent movers collide (serialization failure or deadlock).
func move(ctx context.Context, db *sql.DB, scope Scope, id uuid.UUID, dir int) error {
	var err error
	for attempt := 1; attempt <= maxMoveAttempts; attempt++ {
		err = swapOnce(ctx, db, scope, id, dir)
		if !isRetryable(err) {
			return err
		}
		// Brief backoff before retrying; the competing mover commits fast.
		select {
		case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %s after %d attempts: %v", ErrConflict, scope.Table, maxMoveAttempts, err)
}

// swapOnce performs one transactional swap attempt.
//
// The subject's current order — and for parent-scoped tables its parent
// id — is re-read under a row lock rather than trusted from the caller,
// so a stale UI cannot move a row against an order it no longer has.
// Both rows are locked before either is written; the two updates commit
// together or not at all.
func swapOnce(ctx context.Context, db *sql.DB, scope Scope, id uuid.UUID, dir int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the subject and re-derive its authoritative order and scope.
	var cur int
	var parentID uuid.UUID
	if scope.ParentCol == "" {
		err = tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT sort_order FROM %s WHERE id = $1 FOR UPDATE`, scope.Table),
			id,
		).Scan(&cur)
	} else {
		err = tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT sort_order, %s FROM %s WHERE id = $1 FOR UPDATE`,
				scope.ParentCol, scope.Table),
			id,
		).Scan(&cur, &parentID)
	}
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s %s", ErrNotFound, scope.Table, id)
	}
	if err != nil {
		return fmt.Errorf("read %s for move: %w", scope.Table, err)
	}

	// Already first — nothing to do.
	if dir < 0 && cur <= 1 {
		return tx.Commit()
	}

	// Lock the neighbor occupying the target slot. Absent neighbor
	// (top/bottom of scope, or a gap left by a deletion) is a no-op.
	var neighborID uuid.UUID
	target := cur + dir
	if scope.ParentCol == "" {
		err = tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT id FROM %s WHERE sort_order = $1 FOR UPDATE`, scope.Table),
			target,
		).Scan(&neighborID)
	} else {
		err = tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1 AND sort_order = $2 FOR UPDATE`,
				scope.Table, scope.ParentCol),
			parentID, target,
		).Scan(&neighborID)
	}
	if err == sql.ErrNoRows {
		return tx.Commit()
	}
	if err != nil {
		return fmt.Errorf("find neighbor in %s: %w", scope.Table, err)
	}

	// Swap the two sort_order values. The unique constraint on
	// (scope, sort_order) is deferred, so the intermediate state inside
	// the transaction is allowed and uniqueness is checked at commit.
	swap := fmt.Sprintf(`UPDATE %s SET sort_order = $1, updated_at = NOW() WHERE id = $2`, scope.Table)
	if _, err := tx.ExecContext(ctx, swap, target, id); err != nil {
		return fmt.Errorf("move %s %s: %w", scope.Table, id, err)
	}
	if _, err := tx.ExecContext(ctx, swap, cur, neighborID); err != nil {
		return fmt.Errorf("move %s neighbor %s: %w", scope.Table, neighborID, err)
	}

	return tx.Commit()
}

// isRetryable reports whether err is a transient conflict worth retrying:
// SQLSTATE 40001 (serialization_failure) or 40P01 (deadlock_detected).
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
