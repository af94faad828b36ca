package entrystore

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/roach88/ledgerstore/internal/ir"
	"github.com/roach88/ledgerstore/internal/store"
)

// Config holds the collaborators of a Store.
type Config struct {
	// Identity is the local agent. A nil Identity leaves the store
	// uninitialized: reads and puts work, WhoAmI and history writes fail.
	Identity Identity

	// Codec defaults to SHA256Codec.
	Codec Codec

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Store is the content-addressed entry store.
//
// Thread-safety: all methods are safe for concurrent use. Concurrent puts of
// the same content share one write; distinct addresses never wait on each
// other beyond what the persistence layer imposes.
type Store struct {
	persist  Persistence
	codec    Codec
	identity Identity
	clock    *Clock
	logger   *slog.Logger
	inflight singleflight.Group
}

// New creates a Store over p. The logical clock resumes after the highest
// seq already persisted.
func New(ctx context.Context, p Persistence, cfg Config) (*Store, error) {
	if cfg.Codec == nil {
		cfg.Codec = SHA256Codec{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	maxSeq, err := p.MaxSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("entry store: %w", err)
	}

	return &Store{
		persist:  p,
		codec:    cfg.Codec,
		identity: cfg.Identity,
		clock:    NewClockAt(maxSeq),
		logger:   cfg.Logger,
	}, nil
}

// Put stores record under the default entry type and returns its address.
func (s *Store) Put(ctx context.Context, record ir.IRObject) (ir.Address, error) {
	return s.PutTyped(ctx, ir.DefaultEntryType, record)
}

// PutTyped canonicalizes record, computes its address and persists it if it
// is not already present. Re-putting identical content is a storage no-op
// that returns the same address.
//
// Concurrent puts of the same address share one write. The shared write is
// detached from any single caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (s *Store) PutTyped(ctx context.Context, entryType string, record ir.IRObject) (ir.Address, error) {
	addr, err := s.address(entryType, record)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ch := s.inflight.DoChan(string(addr), func() (any, error) {
		return s.writeEntry(context.WithoutCancel(ctx), entryType, addr, record)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			s.logger.Debug("put joined in-flight write", "address", addr)
		}
		return addr, nil
	}
}

func (s *Store) address(entryType string, record ir.IRObject) (ir.Address, error) {
	if entryType == "" {
		entryType = ir.DefaultEntryType
	}
	canonical, err := s.codec.Canonicalize(entryType, record)
	if err != nil {
		return "", newEncodingError(err)
	}
	return s.codec.Hash(canonical), nil
}

func (s *Store) newEntry(entryType string, addr ir.Address, record ir.IRObject) ir.Entry {
	if entryType == "" {
		entryType = ir.DefaultEntryType
	}
	return ir.Entry{
		Address:   addr,
		EntryType: entryType,
		Content:   record,
		Author:    s.agentID(),
		Seq:       s.clock.Next(),
	}
}

func (s *Store) writeEntry(ctx context.Context, entryType string, addr ir.Address, record ir.IRObject) (bool, error) {
	inserted, err := s.persist.WriteEntry(ctx, s.newEntry(entryType, addr, record))
	if err != nil {
		return false, fmt.Errorf("put %s: %w", addr, err)
	}
	if inserted {
		s.logger.Info("entry stored", "address", addr, "entry_type", entryType)
	} else {
		s.logger.Debug("entry already stored", "address", addr)
	}
	return inserted, nil
}

// Get returns the entry stored at addr. ok is false when addr is unknown or
// names an action rather than an entry.
func (s *Store) Get(ctx context.Context, addr ir.Address) (entry ir.Entry, ok bool, err error) {
	if err := addr.Validate(); err != nil {
		return ir.Entry{}, false, newInvalidAddressError(addr, err)
	}

	kind, err := s.persist.Lookup(ctx, addr)
	if err != nil {
		return ir.Entry{}, false, err
	}
	if kind != store.KindEntry {
		return ir.Entry{}, false, nil
	}

	entry, err = s.persist.ReadEntry(ctx, addr)
	if err != nil {
		return ir.Entry{}, false, fmt.Errorf("get %s: %w", addr, err)
	}
	return entry, true, nil
}

// GetMetadata returns the entry-level history of addr, or nil.
//
// nil is returned both when addr is unknown and when addr is known but holds
// no entry-level details: an action's own address, or an entry with no
// history yet. Callers cannot tell these cases apart.
func (s *Store) GetMetadata(ctx context.Context, addr ir.Address) (*ir.Metadata, error) {
	if err := addr.Validate(); err != nil {
		return nil, newInvalidAddressError(addr, err)
	}

	kind, err := s.persist.Lookup(ctx, addr)
	if err != nil {
		return nil, err
	}
	if kind != store.KindEntry {
		return nil, nil
	}

	actions, err := s.persist.ReadActions(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("get metadata %s: %w", addr, err)
	}
	if len(actions) == 0 {
		return nil, nil
	}

	entry, err := s.persist.ReadEntry(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("get metadata %s: %w", addr, err)
	}
	return ir.NewMetadata(entry, actions), nil
}

// WhoAmI returns the agent identity fixed when the store was created.
func (s *Store) WhoAmI() (ir.AgentID, error) {
	id := s.agentID()
	if id == "" {
		return "", newUninitializedError()
	}
	return id, nil
}

func (s *Store) agentID() ir.AgentID {
	if s.identity == nil {
		return ""
	}
	return s.identity.ID()
}
