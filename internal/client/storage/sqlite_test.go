package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "vendordesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db), db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpenSQLite_CreatesSchema(t *testing.T) {
	_, db := newSQLite(t)
	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	_, db := newSQLite(t)
	require.NoError(t, RunMigrations(context.Background(), db))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestSQLiteStore_SetGetUpsert(t *testing.T) {
	s, _ := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old")))
	require.NoError(t, s.Set(ctx, "k", []byte("new")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSQLiteStore_GetMissingReturnsNilNil(t *testing.T) {
	s, _ := newSQLite(t)

	v, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_DeleteAndClear(t *testing.T) {
	s, _ := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte{1}))
	require.NoError(t, s.Set(ctx, "b", []byte{2}))
	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)

	require.NoError(t, s.Clear(ctx))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSQLiteStore_UpdateRollsBackOnError(t *testing.T) {
	s, _ := newSQLite(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, func(ctx context.Context, tx Store) error {
		require.NoError(t, tx.Set(ctx, "x", []byte("1")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_ErrorsAreWrapped(t *testing.T) {
	s, db := newSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")
	require.ErrorContains(t, s.Set(ctx, "k", nil), "failed to set metadata[k]")
	require.ErrorContains(t, s.Delete(ctx, "k"), "failed to delete metadata[k]")
	require.ErrorContains(t, s.Clear(ctx), "failed to clear metadata")
	_, err = s.Keys(ctx)
	require.ErrorContains(t, err, "failed to list metadata")
}
