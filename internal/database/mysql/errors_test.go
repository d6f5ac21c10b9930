package mysql

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"duplicate entry", &gomysql.MySQLError{Number: errDuplicateEntry, Message: "Duplicate entry"}, errs.ErrKindIntegrity},
		{"bad null", &gomysql.MySQLError{Number: errBadNull}, errs.ErrKindIntegrity},
		{"fk child", &gomysql.MySQLError{Number: errNoReferencedRow2}, errs.ErrKindIntegrity},
		{"fk parent", &gomysql.MySQLError{Number: errRowIsReferenced2}, errs.ErrKindIntegrity},
		{"access denied", &gomysql.MySQLError{Number: errAccessDenied}, errs.ErrKindPermissionDenied},
		{"unknown database", &gomysql.MySQLError{Number: errUnknownDatabase}, errs.ErrKindConnectionFailed},
		{"lock wait", &gomysql.MySQLError{Number: errLockWaitTimeout}, errs.ErrKindTimeout},
		{"bad field", &gomysql.MySQLError{Number: errBadFieldError}, errs.ErrKindQueryFailed},
		{"bad conn", driver.ErrBadConn, errs.ErrKindConnectionFailed},
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"other", errors.New("strange"), errs.ErrKindQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.err, "op failed")
			require.Error(t, err)
			assert.Equal(t, tt.want, errs.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, mapError(nil, "unused"))
}

func TestBuildDSN(t *testing.T) {
	dsn, err := buildDSN("jobboard:secret@tcp(db:3306)/jobboard")
	require.NoError(t, err)

	parsed, err := gomysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)
	assert.Equal(t, "jobboard", parsed.DBName)
	assert.Equal(t, "db:3306", parsed.Addr)

	_, err = buildDSN("not a dsn")
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}
