package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, mapError(nil, "unused"))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"canceled", fmt.Errorf("send: %w", context.Canceled), errs.ErrKindTimeout},
		{"no rows", pgx.ErrNoRows, errs.ErrKindNotFound},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation, Message: "duplicate key"}, errs.ErrKindIntegrity},
		{"foreign key violation", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, errs.ErrKindIntegrity},
		{"not null violation", &pgconn.PgError{Code: pgerrcode.NotNullViolation}, errs.ErrKindIntegrity},
		{"connection failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, errs.ErrKindConnectionFailed},
		{"insufficient privilege", &pgconn.PgError{Code: pgerrcode.InsufficientPrivilege}, errs.ErrKindPermissionDenied},
		{"query canceled", &pgconn.PgError{Code: pgerrcode.QueryCanceled}, errs.ErrKindTimeout},
		{"invalid text", &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, errs.ErrKindInvalidInput},
		{"syntax error", &pgconn.PgError{Code: pgerrcode.SyntaxError}, errs.ErrKindQueryFailed},
		{"network", errors.New("dial tcp: connection refused"), errs.ErrKindConnectionFailed},
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

func TestMapError_KeepsServerMessage(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, Message: "duplicate key value violates unique constraint"}, "insert failed")

	assert.Contains(t, err.Error(), "insert failed: duplicate key value violates unique constraint")
}
