// Package sqlstore implements database.Store on top of database/sql through
// sqlx. The mysql and sqlite packages configure a pool, supply their
// dialect and error mapping, and hand the pool to New.
package sqlstore

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/koustreak/jobboard/internal/database"
)

// ErrorMapper translates a driver-native error into an *errs.Error.
// It must return nil for a nil input.
type ErrorMapper func(err error, msg string) error

// Store is a database.Store over a *sqlx.DB.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	db       *sqlx.DB
	dialect  database.Dialect
	mapError ErrorMapper
}

// New wraps an already configured pool.
func New(db *sqlx.DB, dialect database.Dialect, mapError ErrorMapper) *Store {
	return &Store{db: db, dialect: dialect, mapError: mapError}
}

// --- database.Store implementation ---

func (s *Store) Dialect() database.Dialect {
	return s.dialect
}

func (s *Store) Ping(ctx context.Context) error {
	return s.mapError(s.db.PingContext(ctx), "ping failed")
}

func (s *Store) Close() {
	_ = s.db.Close()
}

func (s *Store) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, s.mapError(err, "query failed")
	}
	return &sqlRows{rows: rows, mapError: s.mapError}, nil
}

func (s *Store) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return &sqlRow{row: s.db.QueryRowxContext(ctx, query, args...), mapError: s.mapError}
}

func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, s.mapError(err, "exec failed")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.mapError(err, "rows affected unavailable")
	}
	return n, nil
}

func (s *Store) ExecInsert(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, s.mapError(err, "insert failed")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, s.mapError(err, "generated key unavailable")
	}
	return id, nil
}

// ExecBatch prepares the statement once inside a transaction and executes
// it per argument set. The first failure rolls back every preceding row.
func (s *Store) ExecBatch(ctx context.Context, query string, batch [][]any) (int64, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, s.mapError(err, "failed to begin batch transaction")
	}
	// Rollback after Commit returns sql.ErrTxDone and is ignored.
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return 0, s.mapError(err, "failed to prepare batch statement")
	}
	defer stmt.Close()

	var applied int64
	for _, args := range batch {
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, s.mapError(err, "batch statement failed")
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			applied++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, s.mapError(err, "failed to commit batch")
	}
	return applied, nil
}

// DB returns the underlying pool (for advanced use)
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// --- database/sql type wrappers ---

type sqlRows struct {
	rows     *sqlx.Rows
	mapError ErrorMapper
}

func (r *sqlRows) Next() bool             { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error { return r.mapError(r.rows.Scan(dest...), "scan failed") }
func (r *sqlRows) Close()                 { _ = r.rows.Close() }
func (r *sqlRows) Err() error             { return r.mapError(r.rows.Err(), "row iteration failed") }

type sqlRow struct {
	row      *sqlx.Row
	mapError ErrorMapper
}

func (r *sqlRow) Scan(dest ...any) error { return r.mapError(r.row.Scan(dest...), "scan failed") }
