// Package sqlite provides an embedded SQLite implementation of
// database.Store, used for local development and the accessor test suites.
package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/database/sqlstore"
	"github.com/koustreak/jobboard/internal/errs"

	_ "github.com/mattn/go-sqlite3" // register "sqlite3" driver
)

// New opens a SQLite database using cfg.DSN (a file path, or ":memory:").
//
// An in-memory database lives inside a single connection, so its pool is
// pinned to exactly one connection that is never recycled.
func New(ctx context.Context, cfg *database.Config) (*sqlstore.Store, error) {
	db, err := sqlx.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfig, "failed to open sqlite", err)
	}

	if isMemory(cfg.DSN) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(int(cfg.MaxConns))
	}

	store := sqlstore.New(db, database.DialectSQLite, mapError)
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
