package identity

import (
	"context"
	"encoding/hex"
	"fmt"
)

// SeedKey is the meta key under which a generated seed is persisted.
const SeedKey = "agent_seed"

// SeedStore persists a seed once. *store.Store implements it.
type SeedStore interface {
	WriteMetaIfAbsent(ctx context.Context, key, value string) (string, error)
}

// Resolve establishes the local agent.
//
// A non-empty configuredSeed (hex) always wins. Otherwise a fresh seed is
// offered to st; if the store already holds one, that earlier seed is used,
// so the agent is stable across reopens of the same database.
func Resolve(ctx context.Context, st SeedStore, configuredSeed string) (*Agent, error) {
	if configuredSeed != "" {
		seed, err := ParseSeed(configuredSeed)
		if err != nil {
			return nil, fmt.Errorf("resolve agent: %w", err)
		}
		return FromSeed(seed)
	}

	fresh, err := Generate()
	if err != nil {
		return nil, fmt.Errorf("resolve agent: %w", err)
	}
	stored, err := st.WriteMetaIfAbsent(ctx, SeedKey, hex.EncodeToString(fresh.Seed()))
	if err != nil {
		return nil, fmt.Errorf("resolve agent: %w", err)
	}
	seed, err := ParseSeed(stored)
	if err != nil {
		return nil, fmt.Errorf("resolve agent: stored seed: %w", err)
	}
	return FromSeed(seed)
}
