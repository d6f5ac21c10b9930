package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/koustreak/jobboard/internal/errs"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// mapError converts a go-sqlite3 error into an *errs.Error.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return errs.Wrap(kindOf(liteErr.Code), msg, err)
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

func kindOf(code sqlite3.ErrNo) errs.ErrKind {
	switch code {
	case sqlite3.ErrConstraint:
		return errs.ErrKindIntegrity
	case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrInterrupt:
		return errs.ErrKindTimeout
	case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
		return errs.ErrKindPermissionDenied
	case sqlite3.ErrCantOpen, sqlite3.ErrNotADB:
		return errs.ErrKindConnectionFailed
	case sqlite3.ErrMismatch, sqlite3.ErrRange, sqlite3.ErrTooBig:
		return errs.ErrKindInvalidInput
	default:
		return errs.ErrKindQueryFailed
	}
}
