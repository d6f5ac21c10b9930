package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	cause := errors.New("duplicate key value")
	err := Wrap(ErrKindIntegrity, "insert into users failed", cause)

	assert.Equal(t, "[integrity_violation] insert into users failed: duplicate key value", err.Error())
	assert.Equal(t, "[config] column name is required", New(ErrKindConfig, "column name is required").Error())
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", New(ErrKindNotFound, "no object"), IsNotFound},
		{"timeout", New(ErrKindTimeout, "deadline"), IsTimeout},
		{"connection", New(ErrKindConnectionFailed, "refused"), IsConnectionFailed},
		{"query", New(ErrKindQueryFailed, "syntax"), IsQueryFailed},
		{"invalid input", New(ErrKindInvalidInput, "odd params"), IsInvalidInput},
		{"permission", New(ErrKindPermissionDenied, "denied"), IsPermissionDenied},
		{"integrity", New(ErrKindIntegrity, "unique"), IsIntegrity},
		{"config", New(ErrKindConfig, "missing name"), IsConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, ErrKindUnknown, KindOf(nil))
}

func TestUnwrap_ReachesCause(t *testing.T) {
	sentinel := errors.New("driver failure")
	err := Wrap(ErrKindQueryFailed, "exec failed", sentinel)
	assert.ErrorIs(t, err, sentinel)
}
