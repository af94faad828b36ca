package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/ledgerstore/internal/ir"
)

const testAuthor = ir.AgentID("agent:test")

// createTestStore creates a new store in a temp directory.
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

// createTestEntry builds an entry whose address matches its content.
func createTestEntry(content string, seq int64) ir.Entry {
	record := ir.IRObject{"content": ir.IRString(content)}
	return ir.Entry{
		Address:   ir.MustEntryAddress("post", record),
		EntryType: "post",
		Content:   record,
		Author:    testAuthor,
		Seq:       seq,
	}
}

// createTestAction builds an unsigned action with a placeholder address.
func createTestAction(addr string, kind ir.ActionKind, target ir.Address, seq int64) ir.Action {
	return ir.Action{
		Address:   ir.HashWithDomain(ir.DomainAction, []byte(addr)),
		Kind:      kind,
		Target:    target,
		Author:    testAuthor,
		Seq:       seq,
		Signature: "sig",
	}
}
