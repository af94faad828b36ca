package entrystore

import (
	"context"

	"github.com/roach88/ledgerstore/internal/ir"
	"github.com/roach88/ledgerstore/internal/store"
)

// Persistence is the durable key-value surface beneath the EntryStore.
// *store.Store implements it.
type Persistence interface {
	WriteEntry(ctx context.Context, entry ir.Entry) (bool, error)
	WriteUpdateAtomic(ctx context.Context, entry ir.Entry, act ir.Action) (bool, bool, error)
	AppendAction(ctx context.Context, act ir.Action) (bool, error)
	ReadEntry(ctx context.Context, addr ir.Address) (ir.Entry, error)
	ReadActions(ctx context.Context, target ir.Address) ([]ir.Action, error)
	Lookup(ctx context.Context, addr ir.Address) (store.Kind, error)
	MaxSeq(ctx context.Context) (int64, error)
}

// Codec canonicalizes records and hashes canonical bytes into addresses.
type Codec interface {
	Canonicalize(entryType string, record ir.IRObject) ([]byte, error)
	Hash(canonical []byte) ir.Address
}

// Identity is the local agent. *identity.Agent implements it.
type Identity interface {
	ID() ir.AgentID
	Sign(act ir.Action) (ir.Action, error)
}

// SHA256Codec is the default Codec: RFC 8785 canonical JSON hashed with
// domain-separated SHA-256.
type SHA256Codec struct{}

// Canonicalize returns the canonical entry form of a typed record.
func (SHA256Codec) Canonicalize(entryType string, record ir.IRObject) ([]byte, error) {
	return ir.CanonicalEntry(entryType, record)
}

// Hash returns the entry address of canonical bytes.
func (SHA256Codec) Hash(canonical []byte) ir.Address {
	return ir.HashWithDomain(ir.DomainEntry, canonical)
}

var (
	_ Persistence = (*store.Store)(nil)
	_ Codec       = SHA256Codec{}
)
