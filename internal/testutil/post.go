// Package testutil provides fixtures shared by ledgerstore tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/ledgerstore/internal/entrystore"
	"github.com/roach88/ledgerstore/internal/identity"
	"github.com/roach88/ledgerstore/internal/ir"
	"github.com/roach88/ledgerstore/internal/store"
)

// PostEntryType is the entry type of Post records.
const PostEntryType = "post"

// Post is the minimal record used by end-to-end tests.
type Post struct {
	Content string `json:"content"`
}

// Record converts p to its record form.
func (p Post) Record() ir.IRObject {
	return ir.IRObject{"content": ir.IRString(p.Content)}
}

// Putter is the write half of an entry store.
type Putter interface {
	PutTyped(ctx context.Context, entryType string, record ir.IRObject) (ir.Address, error)
}

// CreatePost stores Post{Content: "test"} and returns its address.
func CreatePost(ctx context.Context, p Putter) (ir.Address, error) {
	return p.PutTyped(ctx, PostEntryType, Post{Content: "test"}.Record())
}

// FixedSeed is the hex seed of FixedAgent.
const FixedSeed = "0101010101010101010101010101010101010101010101010101010101010101"

// FixedAgent returns a deterministic agent so output can be compared
// against golden files.
func FixedAgent(t *testing.T) *identity.Agent {
	t.Helper()
	agent, err := identity.FromSeed(bytes.Repeat([]byte{1}, 32))
	if err != nil {
		t.Fatalf("FixedAgent: %v", err)
	}
	return agent
}

// NewEntryStore opens an entry store backed by SQLite in t.TempDir(), with
// FixedAgent as identity and logging discarded.
func NewEntryStore(t *testing.T) (*entrystore.Store, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	es, err := entrystore.New(context.Background(), st, entrystore.Config{
		Identity: FixedAgent(t),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("entrystore.New: %v", err)
	}
	return es, st
}
