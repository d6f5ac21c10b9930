package sqlite

import (
	"context"
	"testing"

	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) database.Store {
	t.Helper()
	store, err := New(context.Background(), database.DefaultConfig(":memory:"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	_, err = store.Exec(context.Background(),
		`CREATE TABLE industries (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	return store
}

func TestStore_Dialect(t *testing.T) {
	store := newMemoryStore(t)
	assert.Equal(t, database.DialectSQLite, store.Dialect())
}

func TestStore_ExecInsertAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	id, err := store.ExecInsert(ctx, "INSERT INTO industries (name) VALUES (?)", "Logistics")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	rows, err := store.Query(ctx, "SELECT id, name FROM industries")
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var gotID int64
	var name string
	require.NoError(t, rows.Scan(&gotID, &name))
	assert.Equal(t, "Logistics", name)
	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
}

func TestStore_ExecBatch_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	_, err := store.ExecBatch(ctx, "INSERT INTO industries (name) VALUES (?)", [][]any{
		{"Retail"}, {"Mining"}, {"Retail"},
	})
	require.Error(t, err)
	assert.True(t, errs.IsIntegrity(err))

	var count int64
	require.NoError(t, store.QueryRow(ctx, "SELECT COUNT(*) FROM industries").Scan(&count))
	assert.Equal(t, int64(0), count, "failed batch must not leave partial rows")

	applied, err := store.ExecBatch(ctx, "INSERT INTO industries (name) VALUES (?)", [][]any{
		{"Retail"}, {"Mining"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), applied)
}

func TestStore_ExecBatch_Empty(t *testing.T) {
	store := newMemoryStore(t)
	applied, err := store.ExecBatch(context.Background(), "INSERT INTO industries (name) VALUES (?)", nil)
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestStore_QueryRow_NoRows(t *testing.T) {
	store := newMemoryStore(t)
	var name string
	err := store.QueryRow(context.Background(), "SELECT name FROM industries WHERE id = ?", 42).Scan(&name)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestStore_UniqueViolation(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	_, err := store.Exec(ctx, "INSERT INTO industries (name) VALUES (?)", "Energy")
	require.NoError(t, err)
	_, err = store.Exec(ctx, "INSERT INTO industries (name) VALUES (?)", "Energy")
	require.Error(t, err)
	assert.True(t, errs.IsIntegrity(err))
}
