package dao

import (
	"context"
	"fmt"
	"strings"

	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/logger"
)

// Upserter writes batches of entities keyed by a natural key: rows whose key
// is new are inserted, rows whose key exists have the configured columns
// overwritten.
type Upserter[E any, ID comparable] struct {
	accessor *Accessor[E, ID]
	conflict string
	stmt     string
}

// NewUpserter configures a batch upsert on a's table. conflictColumn must be
// an insertable column backed by a unique constraint. updateColumns default
// to every insertable column except the conflict column.
func NewUpserter[E any, ID comparable](a *Accessor[E, ID], conflictColumn string, updateColumns ...string) (*Upserter[E, ID], error) {
	t := a.table
	c, ok := t.Column(conflictColumn)
	if !ok || !c.Insertable() {
		return nil, errs.Newf(errs.ErrKindConfig, "table %q: conflict column %q must be an insertable column", t.Name(), conflictColumn)
	}

	if len(updateColumns) == 0 {
		for _, col := range t.InsertableColumns() {
			if col.Name() != conflictColumn {
				updateColumns = append(updateColumns, col.Name())
			}
		}
	}
	if len(updateColumns) == 0 {
		return nil, errs.Newf(errs.ErrKindConfig, "table %q: upsert needs at least one column to update", t.Name())
	}
	for _, name := range updateColumns {
		col, ok := t.Column(name)
		if !ok || !col.Insertable() {
			return nil, errs.Newf(errs.ErrKindConfig, "table %q: upsert column %q must be an insertable column", t.Name(), name)
		}
		if name == conflictColumn {
			return nil, errs.Newf(errs.ErrKindConfig, "table %q: upsert cannot overwrite its conflict column %q", t.Name(), name)
		}
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) %s",
		t.Name(), t.InsertableColumnNamesList(), t.InsertableParametersList(),
		conflictClause(a.store.Dialect(), conflictColumn, updateColumns))

	return &Upserter[E, ID]{accessor: a, conflict: conflictColumn, stmt: stmt}, nil
}

// MustUpserter is like NewUpserter but panics on a configuration error.
func MustUpserter[E any, ID comparable](a *Accessor[E, ID], conflictColumn string, updateColumns ...string) *Upserter[E, ID] {
	u, err := NewUpserter(a, conflictColumn, updateColumns...)
	if err != nil {
		panic(err)
	}
	return u
}

func conflictClause(d database.Dialect, key string, cols []string) string {
	sets := make([]string, len(cols))
	if d == database.DialectMySQL {
		for i, c := range cols {
			sets[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
		}
		return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
	}
	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", key, strings.Join(sets, ", "))
}

// ConflictColumn returns the natural key the upsert resolves on.
func (u *Upserter[E, ID]) ConflictColumn() string { return u.conflict }

// Upsert writes entities as one atomic batch and returns the number of rows
// inserted or updated. Either every entity is applied or none is.
func (u *Upserter[E, ID]) Upsert(ctx context.Context, entities []E) (int64, error) {
	if len(entities) == 0 {
		return 0, nil
	}

	t := u.accessor.table
	dialect := u.accessor.store.Dialect()

	var q string
	batch := make([][]any, 0, len(entities))
	for i := range entities {
		compiled, args, err := dialect.Compile(u.stmt, t.InsertArgs(&entities[i]))
		if err != nil {
			return 0, err
		}
		q = compiled
		batch = append(batch, args)
	}

	logger.FromContext(ctx).DebugWith("statement", map[string]interface{}{
		"table": t.Name(),
		"op":    "upsert",
		"sql":   q,
		"rows":  len(batch),
	})
	return u.accessor.store.ExecBatch(ctx, q, batch)
}
