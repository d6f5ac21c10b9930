// Package dao provides the generic data accessor every table of the job
// board is served through.
//
// An Accessor pairs a table.Table descriptor with a RowMapper and a
// database.Store. All standard statements are derived from the descriptor
// once, when the Accessor is built, and executed with named parameters that
// the store's dialect compiles into its positional bind style:
//
//	postings := dao.New[model.JobPosting, int64](store, jobPostingTable, scanJobPosting)
//	id, err := postings.Insert(ctx, &posting)
//	p, ok, err := postings.FindByID(ctx, id)
//
// Per-entity accessors embed *Accessor and add their own lookups on top of
// Query, QueryOne, Exec and QueryInt64.
package dao

import (
	"context"

	"github.com/koustreak/jobboard/internal/database"
)

// RowMapper turns one fetched row, laid out as the table's SelectList,
// into an entity.
type RowMapper[E any] func(database.Row) (*E, error)

// Repository is the set of standard operations every accessor offers.
// HTTP resources depend on it rather than on a concrete accessor.
type Repository[E any, ID comparable] interface {
	FindByID(ctx context.Context, id ID) (*E, bool, error)
	FindAll(ctx context.Context) ([]E, error)
	FindPage(ctx context.Context, limit, offset int) ([]E, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, e *E) (ID, error)
	Update(ctx context.Context, id ID, e *E) (bool, error)
	Delete(ctx context.Context, id ID) (bool, error)
	Exists(ctx context.Context, id ID) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

var _ Repository[struct{}, int64] = (*Accessor[struct{}, int64])(nil)
