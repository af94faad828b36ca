package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ledgerstore/internal/ir"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteEntry inserts an entry at its content address.
// Uses ON CONFLICT(address) DO NOTHING: a second write of the same address is
// a no-op and reports inserted=false. The stored content is the record's
// canonical JSON.
func (s *Store) WriteEntry(ctx context.Context, entry ir.Entry) (inserted bool, err error) {
	inserted, err = writeEntry(ctx, s.db, entry)
	if err != nil {
		return false, fmt.Errorf("write entry: %w", err)
	}
	return inserted, nil
}

func writeEntry(ctx context.Context, ex execer, entry ir.Entry) (bool, error) {
	content, err := marshalContent(entry.Content)
	if err != nil {
		return false, err
	}

	result, err := ex.ExecContext(ctx, `
		INSERT INTO entries
		(address, entry_type, content, author, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(address) DO NOTHING
	`,
		string(entry.Address),
		entry.EntryType,
		content,
		string(entry.Author),
		entry.Seq,
	)
	if err != nil {
		return false, err
	}
	return rowsInserted(result)
}

// AppendAction inserts a history action.
// Uses ON CONFLICT(address) DO NOTHING for idempotency.
//
// Note: The target (and new_entry for updates) must exist (foreign key constraint).
func (s *Store) AppendAction(ctx context.Context, act ir.Action) (inserted bool, err error) {
	inserted, err = appendAction(ctx, s.db, act)
	if err != nil {
		return false, fmt.Errorf("append action: %w", err)
	}
	return inserted, nil
}

func appendAction(ctx context.Context, ex execer, act ir.Action) (bool, error) {
	result, err := ex.ExecContext(ctx, `
		INSERT INTO actions
		(address, kind, target, new_entry, status, author, seq, signature)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO NOTHING
	`,
		string(act.Address),
		string(act.Kind),
		string(act.Target),
		nullableAddress(act.NewEntry),
		string(act.Status),
		string(act.Author),
		act.Seq,
		act.Signature,
	)
	if err != nil {
		return false, err
	}
	return rowsInserted(result)
}

// WriteUpdateAtomic writes the replacement entry and the update action that
// points at it in a single transaction. Either both are visible or neither.
//
// Returns whether the entry and the action were newly inserted.
func (s *Store) WriteUpdateAtomic(ctx context.Context, entry ir.Entry, act ir.Action) (entryInserted, actionInserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, false, fmt.Errorf("atomic update: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	entryInserted, err = writeEntry(ctx, tx, entry)
	if err != nil {
		return false, false, fmt.Errorf("atomic update: write entry: %w", err)
	}

	actionInserted, err = appendAction(ctx, tx, act)
	if err != nil {
		return false, false, fmt.Errorf("atomic update: append action: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, false, fmt.Errorf("atomic update: commit: %w", err)
	}
	return entryInserted, actionInserted, nil
}

// WriteMetaIfAbsent stores value under key unless the key already exists.
// Returns the value that is stored after the call, which is the earlier
// value when one was present.
func (s *Store) WriteMetaIfAbsent(ctx context.Context, key, value string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write meta %q: begin tx: %w", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO NOTHING
	`, key, value); err != nil {
		return "", fmt.Errorf("write meta %q: insert: %w", key, err)
	}

	var stored string
	if err := tx.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&stored); err != nil {
		return "", fmt.Errorf("write meta %q: select: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write meta %q: commit: %w", key, err)
	}
	return stored, nil
}

func rowsInserted(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func nullableAddress(a ir.Address) sql.NullString {
	return sql.NullString{String: string(a), Valid: a != ""}
}
