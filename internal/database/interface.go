package database

import "context"

// Store is the central contract for all statement execution.
// Data accessors talk only to this interface; they never import the
// postgres, mysql or sqlite packages directly.
//
// SQL handed to a Store is already compiled into the driver's positional
// bind style (see Dialect.Compile). Every method acquires a pooled
// connection and releases it before returning, except Query, whose
// connection is released by Rows.Close.
type Store interface {
	// Dialect reports which SQL flavour the store speaks.
	Dialect() Dialect

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection pool.
	Close()

	// Query executes a SQL statement that returns multiple rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// QueryRow executes a SQL statement that returns at most one row.
	// Errors are deferred until Scan.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Exec executes a statement and returns the number of rows affected.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// ExecInsert executes an INSERT and returns the generated key, for
	// dialects without RETURNING support.
	ExecInsert(ctx context.Context, sql string, args ...any) (int64, error)

	// ExecBatch executes one statement once per argument set inside a single
	// transaction. Either every argument set applies or none does.
	// It returns the number of argument sets that affected at least one row.
	ExecBatch(ctx context.Context, sql string, batch [][]any) (int64, error)
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}

// Row is an abstraction over a single database row.
// Rows also satisfies Row, so a row mapper works for both.
type Row interface {
	Scan(dest ...any) error
}
