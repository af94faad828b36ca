package identity

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ledgerstore/internal/store"
)

func openStore(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestResolve_ConfiguredSeedWins(t *testing.T) {
	st := openStore(t, filepath.Join(t.TempDir(), "test.db"))

	agent, err := Resolve(context.Background(), st, strings.Repeat("07", 32))
	require.NoError(t, err)

	expected, err := FromSeed(fixedSeed())
	require.NoError(t, err)
	assert.Equal(t, expected.ID(), agent.ID())

	_, ok, err := st.ReadMeta(context.Background(), SeedKey)
	require.NoError(t, err)
	assert.False(t, ok, "configured seeds are not persisted")
}

func TestResolve_PersistsGeneratedSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first, err := Resolve(ctx, openStore(t, path), "")
	require.NoError(t, err)
	second, err := Resolve(ctx, openStore(t, path), "")
	require.NoError(t, err)

	assert.Equal(t, first.ID(), second.ID())
}

func TestResolve_BadConfiguredSeed(t *testing.T) {
	st := openStore(t, filepath.Join(t.TempDir(), "test.db"))
	_, err := Resolve(context.Background(), st, "not-hex")
	require.Error(t, err)
}

type failingSeedStore struct{}

func (failingSeedStore) WriteMetaIfAbsent(context.Context, string, string) (string, error) {
	return "", errors.New("disk full")
}

func TestResolve_StoreFailure(t *testing.T) {
	_, err := Resolve(context.Background(), failingSeedStore{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
