package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrors_GRPCStatus(t *testing.T) {
	cause := errors.New("database is locked")

	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "validation", err: NewValidationError("Name", "is required"), code: codes.InvalidArgument},
		{name: "not found", err: UserNotFound(), code: codes.NotFound},
		{name: "conflict", err: EmailConflict(nil), code: codes.AlreadyExists},
		{name: "unavailable", err: NewUnavailableError("storage unavailable", cause), code: codes.Unavailable},
		{name: "internal", err: NewInternalError("boom", cause), code: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
		})
	}
}

func TestErrors_AsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to create user: %w", EmailConflict(errors.New("UNIQUE constraint failed: users.email")))

	var conflict *ConflictError
	require.ErrorAs(t, wrapped, &conflict)
	assert.Equal(t, MsgEmailAlreadyExists, conflict.Error())
	assert.Contains(t, conflict.Unwrap().Error(), "UNIQUE")

	var notFound *NotFoundError
	assert.False(t, errors.As(wrapped, &notFound))
}

func TestUnavailableError_Retryable(t *testing.T) {
	cause := errors.New("database is locked")
	err := NewUnavailableError("storage unavailable", cause)

	assert.True(t, err.Retryable())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage unavailable: database is locked", err.Error())

	st, _ := status.FromError(err)
	assert.Equal(t, "storage unavailable", st.Message())
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "validation failed: Name - is required", NewValidationError("Name", "is required").Error())
	assert.Equal(t, "validation failed: bad input", NewValidationError("", "bad input").Error())
}
