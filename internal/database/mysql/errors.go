package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/jobboard/internal/errs"
)

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errDbAccessDenied   = 1044
	errAccessDenied     = 1045
	errBadNull          = 1048
	errUnknownDatabase  = 1049
	errBadFieldError    = 1054
	errDuplicateEntry   = 1062
	errParseError       = 1064
	errNoSuchTable      = 1146
	errNoReferencedRow  = 1216
	errRowIsReferenced  = 1217
	errRowIsReferenced2 = 1451
	errNoReferencedRow2 = 1452
	errCheckViolated    = 3819
	errLockWaitTimeout  = 1205
	errQueryInterrupted = 1317
)

// mapError converts a MySQL driver error into an *errs.Error.
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

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(kindOf(mysqlErr.Number), fmt.Sprintf("%s: %s", msg, mysqlErr.Message), err)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, gomysql.ErrInvalidConn) {
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

func kindOf(number uint16) errs.ErrKind {
	switch number {
	case errDuplicateEntry, errBadNull, errNoReferencedRow, errRowIsReferenced,
		errRowIsReferenced2, errNoReferencedRow2, errCheckViolated:
		return errs.ErrKindIntegrity
	case errAccessDenied, errDbAccessDenied:
		return errs.ErrKindPermissionDenied
	case errUnknownDatabase:
		return errs.ErrKindConnectionFailed
	case errLockWaitTimeout, errQueryInterrupted:
		return errs.ErrKindTimeout
	case errBadFieldError, errParseError, errNoSuchTable:
		return errs.ErrKindQueryFailed
	default:
		return errs.ErrKindQueryFailed
	}
}
