package dao

import (
	"context"
	"fmt"

	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/logger"
	"github.com/koustreak/jobboard/internal/table"
)

// statements holds the named SQL derived from a table descriptor.
type statements struct {
	findByID  string
	findAll   string
	findPage  string
	count     string
	insert    string
	update    string
	delete    string
	exists    string
	deleteAll string
}

func deriveStatements[E any](t *table.Table[E], dialect database.Dialect) statements {
	name, id := t.Name(), t.IDColumn()
	byID := fmt.Sprintf(" WHERE %s = :%s", id, table.IDParam)
	selectAll := fmt.Sprintf("SELECT %s FROM %s", t.SelectList(), name)

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, t.InsertableColumnNamesList(), t.InsertableParametersList())
	if dialect.SupportsReturning() {
		insert += " RETURNING " + id
	}

	return statements{
		findByID:  selectAll + byID,
		findAll:   selectAll + " ORDER BY " + id,
		findPage:  selectAll + " ORDER BY " + id + " LIMIT :limit OFFSET :offset",
		count:     "SELECT COUNT(*) FROM " + name,
		insert:    insert,
		update:    fmt.Sprintf("UPDATE %s SET %s", name, t.UpdateSetClause()) + byID,
		delete:    "DELETE FROM " + name + byID,
		exists:    "SELECT COUNT(*) FROM " + name + byID,
		deleteAll: "DELETE FROM " + name,
	}
}

// Accessor implements the standard operations for one table.
// It holds no mutable state and is safe for concurrent use.
type Accessor[E any, ID comparable] struct {
	table  *table.Table[E]
	mapRow RowMapper[E]
	store  database.Store
	stmts  statements
}

// New builds an Accessor. A nil mapRow falls back to the descriptor's
// setter-driven mapper.
func New[E any, ID comparable](store database.Store, t *table.Table[E], mapRow RowMapper[E]) *Accessor[E, ID] {
	if mapRow == nil {
		mapRow = t.Mapper()
	}
	return &Accessor[E, ID]{
		table:  t,
		mapRow: mapRow,
		store:  store,
		stmts:  deriveStatements(t, store.Dialect()),
	}
}

// Table returns the accessor's descriptor.
func (a *Accessor[E, ID]) Table() *table.Table[E] { return a.table }

// Store returns the store the accessor executes against.
func (a *Accessor[E, ID]) Store() database.Store { return a.store }

// FindByID fetches one row by primary key. A missing row is reported as
// (nil, false, nil).
func (a *Accessor[E, ID]) FindByID(ctx context.Context, id ID) (*E, bool, error) {
	return a.queryOne(ctx, "findById", a.stmts.findByID, map[string]any{table.IDParam: id})
}

// FindAll fetches every row ordered by primary key.
func (a *Accessor[E, ID]) FindAll(ctx context.Context) ([]E, error) {
	return a.query(ctx, "findAll", a.stmts.findAll, nil)
}

// FindPage fetches rows ordered by primary key. limit and offset are passed
// to the database unchanged.
func (a *Accessor[E, ID]) FindPage(ctx context.Context, limit, offset int) ([]E, error) {
	return a.query(ctx, "findPage", a.stmts.findPage, map[string]any{"limit": limit, "offset": offset})
}

// Count returns the number of rows in the table.
func (a *Accessor[E, ID]) Count(ctx context.Context) (int64, error) {
	return a.scalar(ctx, "count", a.stmts.count, nil)
}

// Insert writes the insertable columns of e and returns the generated key.
func (a *Accessor[E, ID]) Insert(ctx context.Context, e *E) (ID, error) {
	var id ID
	q, args, err := a.compile(ctx, "insert", a.stmts.insert, a.table.InsertArgs(e))
	if err != nil {
		return id, err
	}

	if a.store.Dialect().SupportsReturning() {
		if err := a.store.QueryRow(ctx, q, args...).Scan(&id); err != nil {
			return id, err
		}
		return id, nil
	}

	n, err := a.store.ExecInsert(ctx, q, args...)
	if err != nil {
		return id, err
	}
	return idFromInt64[ID](n)
}

// Update writes the updatable columns of e to the row with the given id.
// It reports false when no row has that id.
func (a *Accessor[E, ID]) Update(ctx context.Context, id ID, e *E) (bool, error) {
	if len(a.table.UpdatableColumns()) == 0 {
		return false, errs.Newf(errs.ErrKindInvalidInput, "table %s has no updatable columns", a.table.Name())
	}
	params := a.table.UpdateArgs(e)
	params[table.IDParam] = id

	n, err := a.exec(ctx, "update", a.stmts.update, params)
	return n > 0, err
}

// Delete removes the row with the given id. It reports false when the row
// was already gone.
func (a *Accessor[E, ID]) Delete(ctx context.Context, id ID) (bool, error) {
	n, err := a.exec(ctx, "delete", a.stmts.delete, map[string]any{table.IDParam: id})
	return n > 0, err
}

// Exists reports whether a row with the given id is present.
func (a *Accessor[E, ID]) Exists(ctx context.Context, id ID) (bool, error) {
	n, err := a.scalar(ctx, "exists", a.stmts.exists, map[string]any{table.IDParam: id})
	return n > 0, err
}

// DeleteAll removes every row and returns how many were removed.
func (a *Accessor[E, ID]) DeleteAll(ctx context.Context) (int64, error) {
	return a.exec(ctx, "deleteAll", a.stmts.deleteAll, nil)
}

// Query runs a custom SELECT whose columns follow the table's SelectList.
// kv is an alternating list of parameter names and values.
func (a *Accessor[E, ID]) Query(ctx context.Context, sql string, kv ...any) ([]E, error) {
	params, err := Params(kv...)
	if err != nil {
		return nil, err
	}
	return a.query(ctx, "query", sql, params)
}

// QueryOne is Query for at most one row. Extra rows are ignored.
func (a *Accessor[E, ID]) QueryOne(ctx context.Context, sql string, kv ...any) (*E, bool, error) {
	params, err := Params(kv...)
	if err != nil {
		return nil, false, err
	}
	return a.queryOne(ctx, "queryOne", sql, params)
}

// Exec runs a custom INSERT, UPDATE or DELETE and returns the rows affected.
func (a *Accessor[E, ID]) Exec(ctx context.Context, sql string, kv ...any) (int64, error) {
	params, err := Params(kv...)
	if err != nil {
		return 0, err
	}
	return a.exec(ctx, "exec", sql, params)
}

// QueryInt64 runs a custom query returning a single integer, such as a
// filtered COUNT(*).
func (a *Accessor[E, ID]) QueryInt64(ctx context.Context, sql string, kv ...any) (int64, error) {
	params, err := Params(kv...)
	if err != nil {
		return 0, err
	}
	return a.scalar(ctx, "queryInt64", sql, params)
}

// FindWhere selects rows matching cond, a WHERE clause body with named
// parameters, ordered by primary key.
func (a *Accessor[E, ID]) FindWhere(ctx context.Context, cond string, kv ...any) ([]E, error) {
	return a.Query(ctx, a.where(cond)+" ORDER BY "+a.table.IDColumn(), kv...)
}

// FindOneWhere is FindWhere for at most one row.
func (a *Accessor[E, ID]) FindOneWhere(ctx context.Context, cond string, kv ...any) (*E, bool, error) {
	return a.QueryOne(ctx, a.where(cond)+" ORDER BY "+a.table.IDColumn(), kv...)
}

// CountWhere counts rows matching cond.
func (a *Accessor[E, ID]) CountWhere(ctx context.Context, cond string, kv ...any) (int64, error) {
	return a.QueryInt64(ctx, "SELECT COUNT(*) FROM "+a.table.Name()+" WHERE "+cond, kv...)
}

func (a *Accessor[E, ID]) where(cond string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s", a.table.SelectList(), a.table.Name(), cond)
}

// --- execution helpers ---

func (a *Accessor[E, ID]) compile(ctx context.Context, op, stmt string, params map[string]any) (string, []any, error) {
	q, args, err := a.store.Dialect().Compile(stmt, params)
	if err != nil {
		return "", nil, err
	}
	logger.FromContext(ctx).DebugWith("statement", map[string]interface{}{
		"table": a.table.Name(),
		"op":    op,
		"sql":   q,
		"args":  len(args),
	})
	return q, args, nil
}

func (a *Accessor[E, ID]) query(ctx context.Context, op, stmt string, params map[string]any) ([]E, error) {
	q, args, err := a.compile(ctx, op, stmt, params)
	if err != nil {
		return nil, err
	}

	rows, err := a.store.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]E, 0)
	for rows.Next() {
		e, err := a.mapRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Accessor[E, ID]) queryOne(ctx context.Context, op, stmt string, params map[string]any) (*E, bool, error) {
	q, args, err := a.compile(ctx, op, stmt, params)
	if err != nil {
		return nil, false, err
	}

	rows, err := a.store.Query(ctx, q, args...)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}
	e, err := a.mapRow(rows)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

func (a *Accessor[E, ID]) exec(ctx context.Context, op, stmt string, params map[string]any) (int64, error) {
	q, args, err := a.compile(ctx, op, stmt, params)
	if err != nil {
		return 0, err
	}
	return a.store.Exec(ctx, q, args...)
}

func (a *Accessor[E, ID]) scalar(ctx context.Context, op, stmt string, params map[string]any) (int64, error) {
	q, args, err := a.compile(ctx, op, stmt, params)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := a.store.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
