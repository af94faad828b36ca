package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/ledgerstore/internal/ir"
)

// Kind classifies what, if anything, is stored at an address.
type Kind int

const (
	// KindUnknown means nothing is stored at the address.
	KindUnknown Kind = iota
	// KindEntry means the address is a stored record.
	KindEntry
	// KindAction means the address is a history action (an element, not an entry).
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// Lookup reports what kind of object lives at addr.
func (s *Store) Lookup(ctx context.Context, addr ir.Address) (Kind, error) {
	var kind int
	err := s.rdb.QueryRowContext(ctx, `
		SELECT 1 FROM entries WHERE address = ?
		UNION ALL
		SELECT 2 FROM actions WHERE address = ?
		LIMIT 1
	`, string(addr), string(addr)).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return KindUnknown, nil
	}
	if err != nil {
		return KindUnknown, fmt.Errorf("lookup %s: %w", addr, err)
	}
	return Kind(kind), nil
}

// ReadEntry retrieves an entry by address.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadEntry(ctx context.Context, addr ir.Address) (ir.Entry, error) {
	row := s.rdb.QueryRowContext(ctx, `
		SELECT address, entry_type, content, author, seq
		FROM entries
		WHERE address = ?
	`, string(addr))

	var (
		entry   ir.Entry
		address string
		content string
		author  string
	)
	if err := row.Scan(&address, &entry.EntryType, &content, &author, &entry.Seq); err != nil {
		return ir.Entry{}, err
	}

	record, err := unmarshalContent(content)
	if err != nil {
		return ir.Entry{}, fmt.Errorf("read entry %s: %w", addr, err)
	}
	entry.Address = ir.Address(address)
	entry.Author = ir.AgentID(author)
	entry.Content = record
	return entry, nil
}

// ReadAction retrieves a single action by address.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadAction(ctx context.Context, addr ir.Address) (ir.Action, error) {
	row := s.rdb.QueryRowContext(ctx, `
		SELECT address, kind, target, new_entry, status, author, seq, signature
		FROM actions
		WHERE address = ?
	`, string(addr))
	return scanAction(row)
}

// ReadActions returns the history of target ordered by seq ASC, address ASC.
// Returns an empty slice (not nil) if the entry has no history.
func (s *Store) ReadActions(ctx context.Context, target ir.Address) ([]ir.Action, error) {
	rows, err := s.rdb.QueryContext(ctx, `
		SELECT address, kind, target, new_entry, status, author, seq, signature
		FROM actions
		WHERE target = ?
		ORDER BY seq ASC, address COLLATE BINARY ASC
	`, string(target))
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	actions := []ir.Action{}
	for rows.Next() {
		act, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, act)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return actions, nil
}

// CountEntries returns the number of stored entries.
func (s *Store) CountEntries(ctx context.Context) (int, error) {
	return s.count(ctx, "entries")
}

// CountActions returns the number of stored actions.
func (s *Store) CountActions(ctx context.Context) (int, error) {
	return s.count(ctx, "actions")
}

func (s *Store) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.rdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// MaxSeq returns the highest seq across entries and actions, or 0 for an
// empty store. Used to resume the logical clock on reopen.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.rdb.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM (
			SELECT seq FROM entries
			UNION ALL
			SELECT seq FROM actions
		)
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq, nil
}

// ReadMeta returns the value stored under key and whether it exists.
func (s *Store) ReadMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.rdb.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read meta %q: %w", key, err)
	}
	return value, true, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAction(row rowScanner) (ir.Action, error) {
	var (
		act                                   ir.Action
		address, kind, target, status, author string
		newEntry                              sql.NullString
	)
	if err := row.Scan(&address, &kind, &target, &newEntry, &status, &author, &act.Seq, &act.Signature); err != nil {
		return ir.Action{}, err
	}
	act.Address = ir.Address(address)
	act.Kind = ir.ActionKind(kind)
	act.Target = ir.Address(target)
	act.NewEntry = ir.Address(newEntry.String)
	act.Status = ir.ValidationStatus(status)
	act.Author = ir.AgentID(author)
	return act, nil
}
