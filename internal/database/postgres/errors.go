package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/jobboard/internal/errs"
)

// mapError translates pgx / pgconn native errors into *errs.Error.
// It returns a plain nil for a nil input so callers can return it directly.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	// Context cancellation / deadline exceeded
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	// Postgres server-side error (SQLSTATE codes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(kindOf(pgErr.Code), fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	// Fallthrough: connection-level errors (TLS, network, auth)
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// kindOf classifies a SQLSTATE code.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
func kindOf(code string) errs.ErrKind {
	switch {
	case pgerrcode.IsIntegrityConstraintViolation(code):
		return errs.ErrKindIntegrity
	case pgerrcode.IsConnectionException(code):
		return errs.ErrKindConnectionFailed
	case pgerrcode.IsInvalidAuthorizationSpecification(code), code == pgerrcode.InsufficientPrivilege:
		return errs.ErrKindPermissionDenied
	case code == pgerrcode.QueryCanceled, code == pgerrcode.LockNotAvailable:
		return errs.ErrKindTimeout
	case pgerrcode.IsDataException(code):
		return errs.ErrKindInvalidInput
	default:
		return errs.ErrKindQueryFailed
	}
}
