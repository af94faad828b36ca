package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"entries", "actions", "meta"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q missing", table)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	assert.NoError(t, s.Close())
}

func TestSpaceID_StableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	id1, err := s1.SpaceID(ctx)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	parsed, err := uuid.Parse(id1)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	id2, err := s2.SpaceID(ctx)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
}

func TestSpaceID_DistinctPerDatabase(t *testing.T) {
	ctx := context.Background()
	id1, err := createTestStore(t).SpaceID(ctx)
	require.NoError(t, err)
	id2, err := createTestStore(t).SpaceID(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestOpenExisting_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := OpenExisting(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "OpenExisting must not create the file")
}

func TestOpenExisting_OpensCreatedDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.SpaceID(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenExisting(path)
	require.NoError(t, err)
	defer s.Close()

	again, err := s.SpaceID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestReads_DoNotWaitOnOpenWriteTransaction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	committed := createTestEntry("committed", 1)
	_, err := s.WriteEntry(ctx, committed)
	require.NoError(t, err)

	tx, err := s.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	pending := createTestEntry("pending", 2)
	_, err = writeEntry(ctx, tx, pending)
	require.NoError(t, err)

	readCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	got, err := s.ReadEntry(readCtx, committed.Address)
	require.NoError(t, err)
	assert.Equal(t, committed.Content, got.Content)

	kind, err := s.Lookup(readCtx, pending.Address)
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, kind, "uncommitted entry must not be visible")

	require.NoError(t, tx.Commit())

	kind, err = s.Lookup(ctx, pending.Address)
	require.NoError(t, err)
	assert.Equal(t, KindEntry, kind)
}

func TestReadPool_IsReadOnly(t *testing.T) {
	s := createTestStore(t)

	_, err := s.rdb.ExecContext(context.Background(), `INSERT INTO meta (key, value) VALUES ('k', 'v')`)
	assert.Error(t, err)
}
