package entrystore

import (
	"context"
	"fmt"

	"github.com/roach88/ledgerstore/internal/ir"
	"github.com/roach88/ledgerstore/internal/store"
)

// Update stores record as the replacement for original and appends an update
// action to original's history. The replacement keeps original's entry type.
// The new entry and the action commit together.
func (s *Store) Update(ctx context.Context, original ir.Address, record ir.IRObject) (ir.Action, error) {
	if err := s.requireIdentity(); err != nil {
		return ir.Action{}, err
	}
	target, err := s.requireEntry(ctx, original)
	if err != nil {
		return ir.Action{}, err
	}

	addr, err := s.address(target.EntryType, record)
	if err != nil {
		return ir.Action{}, err
	}
	entry := s.newEntry(target.EntryType, addr, record)

	act, err := s.sign(ir.Action{
		Kind:     ir.ActionUpdate,
		Target:   original,
		NewEntry: addr,
	})
	if err != nil {
		return ir.Action{}, err
	}

	entryInserted, _, err := s.persist.WriteUpdateAtomic(ctx, entry, act)
	if err != nil {
		return ir.Action{}, fmt.Errorf("update %s: %w", original, err)
	}
	s.logger.Info("action appended",
		"kind", act.Kind,
		"target", original,
		"action", act.Address,
		"new_entry", addr,
		"new_entry_inserted", entryInserted,
	)
	return act, nil
}

// Delete appends a delete tombstone to addr's history. Nothing is removed.
func (s *Store) Delete(ctx context.Context, addr ir.Address) (ir.Action, error) {
	return s.appendAction(ctx, ir.Action{Kind: ir.ActionDelete, Target: addr})
}

// RecordValidation appends a validation outcome to addr's history.
func (s *Store) RecordValidation(ctx context.Context, addr ir.Address, status ir.ValidationStatus) (ir.Action, error) {
	if !ir.ValidValidationStatuses[status] {
		return ir.Action{}, &Error{
			Code:    ErrCodeInvalidStatus,
			Message: fmt.Sprintf("unknown validation status %q", status),
			Address: addr,
		}
	}
	return s.appendAction(ctx, ir.Action{Kind: ir.ActionValidation, Target: addr, Status: status})
}

func (s *Store) appendAction(ctx context.Context, act ir.Action) (ir.Action, error) {
	if err := s.requireIdentity(); err != nil {
		return ir.Action{}, err
	}
	if _, err := s.requireEntry(ctx, act.Target); err != nil {
		return ir.Action{}, err
	}

	signed, err := s.sign(act)
	if err != nil {
		return ir.Action{}, err
	}

	if _, err := s.persist.AppendAction(ctx, signed); err != nil {
		return ir.Action{}, fmt.Errorf("%s %s: %w", act.Kind, act.Target, err)
	}
	s.logger.Info("action appended", "kind", signed.Kind, "target", signed.Target, "action", signed.Address)
	return signed, nil
}

func (s *Store) sign(act ir.Action) (ir.Action, error) {
	act.Seq = s.clock.Next()
	signed, err := s.identity.Sign(act)
	if err != nil {
		return ir.Action{}, fmt.Errorf("sign %s action: %w", act.Kind, err)
	}
	return signed, nil
}

func (s *Store) requireIdentity() error {
	if s.agentID() == "" {
		return newUninitializedError()
	}
	return nil
}

// requireEntry validates addr and loads the entry stored there.
// Action addresses are not valid targets.
func (s *Store) requireEntry(ctx context.Context, addr ir.Address) (ir.Entry, error) {
	if err := addr.Validate(); err != nil {
		return ir.Entry{}, newInvalidAddressError(addr, err)
	}
	kind, err := s.persist.Lookup(ctx, addr)
	if err != nil {
		return ir.Entry{}, err
	}
	if kind != store.KindEntry {
		return ir.Entry{}, newNotFoundError(addr)
	}
	entry, err := s.persist.ReadEntry(ctx, addr)
	if err != nil {
		return ir.Entry{}, fmt.Errorf("read target %s: %w", addr, err)
	}
	return entry, nil
}
