package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
)

// Driver is a PostgreSQL implementation of database.Store backed by pgxpool.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	pool, err := buildPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{pool: pool}

	if err := d.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return d, nil
}

// --- database.Store implementation ---

// Dialect reports DialectPostgres.
func (d *Driver) Dialect() database.Dialect {
	return database.DialectPostgres
}

// Ping verifies the database is reachable by acquiring and releasing a connection.
func (d *Driver) Ping(ctx context.Context) error {
	return mapError(d.pool.Ping(ctx), "ping failed")
}

// Close drains the connection pool. Call when the application shuts down.
func (d *Driver) Close() {
	d.pool.Close()
}

// Query executes a SQL statement that returns multiple rows.
func (d *Driver) Query(ctx context.Context, sql string, args ...any) (database.Rows, error) {
	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &pgxRows{rows: rows}, nil
}

// QueryRow executes a SQL statement expected to return at most one row.
func (d *Driver) QueryRow(ctx context.Context, sql string, args ...any) database.Row {
	return &pgxRow{row: d.pool.QueryRow(ctx, sql, args...)}
}

// Exec executes a statement and returns the number of rows affected.
func (d *Driver) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := d.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapError(err, "exec failed")
	}
	return tag.RowsAffected(), nil
}

// ExecInsert is not available on Postgres; generated keys come back
// through INSERT … RETURNING.
func (d *Driver) ExecInsert(context.Context, string, ...any) (int64, error) {
	return 0, errs.New(errs.ErrKindInvalidInput, "postgres reports generated keys through RETURNING")
}

// ExecBatch queues one statement per argument set on a pgx.Batch and sends
// it inside a transaction. The first failing statement aborts the whole batch.
func (d *Driver) ExecBatch(ctx context.Context, sql string, batch [][]any) (int64, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return 0, mapError(err, "failed to begin batch transaction")
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	b := &pgx.Batch{}
	for _, args := range batch {
		b.Queue(sql, args...)
	}

	results := tx.SendBatch(ctx, b)
	var applied int64
	for range batch {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, mapError(err, "batch statement failed")
		}
		if tag.RowsAffected() > 0 {
			applied++
		}
	}
	if err := results.Close(); err != nil {
		return 0, mapError(err, "failed to close batch")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, mapError(err, "failed to commit batch")
	}
	return applied, nil
}

// Pool returns the underlying pgxpool (for advanced use)
func (d *Driver) Pool() *pgxpool.Pool {
	return d.pool
}

// --- pgx type wrappers ---

// pgxRows wraps pgx.Rows to satisfy database.Rows.
type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return mapError(r.rows.Scan(dest...), "scan failed") }
func (r *pgxRows) Close()                 { r.rows.Close() }
func (r *pgxRows) Err() error             { return mapError(r.rows.Err(), "row iteration failed") }

// pgxRow wraps pgx.Row to satisfy database.Row.
type pgxRow struct {
	row pgx.Row
}

func (r *pgxRow) Scan(dest ...any) error { return mapError(r.row.Scan(dest...), "scan failed") }
