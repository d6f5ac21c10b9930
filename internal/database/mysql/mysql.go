// Package mysql provides a MySQL implementation of database.Store.
//
// Usage:
//
//	cfg := database.DefaultConfig("jobboard:secret@tcp(localhost:3306)/jobboard")
//	store, err := mysql.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
package mysql

import (
	"context"

	_ "github.com/go-sql-driver/mysql" // register "mysql" driver
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/database/sqlstore"
)

// New opens a MySQL connection pool using the provided Config.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*sqlstore.Store, error) {
	db, err := buildPool(cfg)
	if err != nil {
		return nil, err
	}

	store := sqlstore.New(db, database.DialectMySQL, mapError)

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := store.Ping(pingCtx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
