// Package entrystore implements the content-addressed entry store.
//
// A Store exposes four read/write operations over an injected Persistence,
// Codec and Identity:
//
//   - Put: canonicalize a record, hash it to an Address, persist it once
//   - Get: read a record back by Address
//   - GetMetadata: the entry-level history (updates, deletes, validations)
//   - WhoAmI: the local agent identity
//
// and three history writes (Update, Delete, RecordValidation) that append
// signed, content-addressed actions. History is append-only; deletes are
// tombstones.
//
// # Metadata folding
//
// GetMetadata returns nil for an unknown address, for an action's own
// address, and for an entry that has no history yet. These cases are
// indistinguishable to the caller.
//
// # Concurrency
//
// Concurrent puts of identical content are collapsed per address with
// singleflight and converge on one stored row through the store's
// ON CONFLICT DO NOTHING insert. Reads never take a lock.
package entrystore
