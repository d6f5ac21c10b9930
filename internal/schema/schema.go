// Package schema checks table descriptors against a live database at
// startup, so a descriptor that names a missing table or column fails
// before the server accepts traffic.
package schema

import (
	"context"
	"fmt"

	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/table"
)

// Mismatch records one descriptor the database could not serve.
type Mismatch struct {
	Table string
	Err   error
}

// Check probes every descriptor with a zero-row SELECT of its SelectList
// and returns the descriptors that failed. A connectivity failure aborts
// the check and is returned as the error.
func Check(ctx context.Context, store database.Store, descriptors ...table.Descriptor) ([]Mismatch, error) {
	var mismatches []Mismatch
	for _, d := range descriptors {
		probe := fmt.Sprintf("SELECT %s FROM %s WHERE 1 = 0", d.SelectList(), d.Name())
		rows, err := store.Query(ctx, probe)
		if err == nil {
			err = rows.Err()
			rows.Close()
		}
		if err == nil {
			continue
		}
		if errs.IsConnectionFailed(err) || errs.IsTimeout(err) {
			return nil, err
		}
		mismatches = append(mismatches, Mismatch{Table: d.Name(), Err: err})
	}
	return mismatches, nil
}

// Verify is Check that folds every mismatch into one configuration error.
func Verify(ctx context.Context, store database.Store, descriptors ...table.Descriptor) error {
	mismatches, err := Check(ctx, store, descriptors...)
	if err != nil {
		return err
	}
	if len(mismatches) == 0 {
		return nil
	}

	first := mismatches[0]
	return errs.Wrap(errs.ErrKindConfig,
		fmt.Sprintf("%d table descriptor(s) do not match the database, first: %s", len(mismatches), first.Table),
		first.Err)
}
