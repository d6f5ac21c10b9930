package database

import (
	"errors"
	"testing"

	"github.com/koustreak/jobboard/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect_Compile(t *testing.T) {
	const q = "UPDATE users SET email = :email, active = :active WHERE id = :id"
	params := map[string]any{"email": "a@b.c", "active": true, "id": int64(7)}

	tests := []struct {
		name    string
		dialect Dialect
		want    string
	}{
		{"postgres", DialectPostgres, "UPDATE users SET email = $1, active = $2 WHERE id = $3"},
		{"mysql", DialectMySQL, "UPDATE users SET email = ?, active = ? WHERE id = ?"},
		{"sqlite", DialectSQLite, "UPDATE users SET email = ?, active = ? WHERE id = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.dialect.Compile(q, params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Equal(t, []any{"a@b.c", true, int64(7)}, args)
		})
	}
}

func TestDialect_Compile_RepeatedName(t *testing.T) {
	sql, args, err := DialectPostgres.Compile(
		"SELECT id FROM connections WHERE requester_id = :userId OR addressee_id = :userId",
		map[string]any{"userId": int64(3)},
	)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM connections WHERE requester_id = $1 OR addressee_id = $2", sql)
	assert.Equal(t, []any{int64(3), int64(3)}, args)
}

func TestDialect_Compile_MissingParam(t *testing.T) {
	_, _, err := DialectSQLite.Compile("DELETE FROM users WHERE id = :id", nil)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestDialect_Compile_LiteralColons(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"cast", DialectPostgres,
			"SELECT id FROM users WHERE created_at::date = :d",
			"SELECT id FROM users WHERE created_at::date = $1"},
		{"string literal", DialectPostgres,
			"SELECT id FROM users WHERE name = 'a:b' AND name <> :d",
			"SELECT id FROM users WHERE name = 'a:b' AND name <> $1"},
		{"quoted identifier", DialectSQLite,
			`SELECT "x:y" FROM t WHERE id = :d`,
			`SELECT "x:y" FROM t WHERE id = ?`},
		{"escaped quote", DialectMySQL,
			"SELECT id FROM t WHERE note = 'it''s 9:30' AND id = :d",
			"SELECT id FROM t WHERE note = 'it''s 9:30' AND id = ?"},
		{"question mark literal", DialectPostgres,
			"SELECT id FROM t WHERE note = 'why?' AND id = :d",
			"SELECT id FROM t WHERE note = 'why?' AND id = $1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.dialect.Compile(tt.query, map[string]any{"d": "2025-01-01"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Equal(t, []any{"2025-01-01"}, args)
		})
	}
}

func TestDialect_SupportsReturning(t *testing.T) {
	assert.True(t, DialectPostgres.SupportsReturning())
	assert.True(t, DialectSQLite.SupportsReturning())
	assert.False(t, DialectMySQL.SupportsReturning())
}

func TestDriver_Dialect(t *testing.T) {
	d, ok := DriverMySQL.Dialect()
	assert.True(t, ok)
	assert.Equal(t, DialectMySQL, d)

	_, ok = Driver("oracle").Dialect()
	assert.False(t, ok)
}

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(*any)) = r.values[i]
	}
	return nil
}

func TestScanValues(t *testing.T) {
	vals, err := ScanValues(stubRow{values: []any{int64(1), "Berlin"}}, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "Berlin"}, vals)

	_, err = ScanValues(stubRow{err: errors.New("bad column")}, 2)
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
}
