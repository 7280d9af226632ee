package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := New(ErrorTypeValidation, "VALIDATION", "bad input")
	assert.Equal(t, "validation: bad input", err.Error())

	wrapped := Wrap(errors.New("connection refused"), ErrorTypeExternal, "EXTERNAL_API", "consult API error")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := Wrap(inner, ErrorTypeInternal, "INTERNAL", "something broke")
	assert.ErrorIs(t, err, inner)
}

func TestIsMatchesTypeAndCode(t *testing.T) {
	busy := New(ErrorTypePrecondition, "SESSION_BUSY", "different message")
	assert.ErrorIs(t, busy, ErrSessionBusy)

	other := New(ErrorTypePrecondition, "NOTHING_TO_CANCEL", "msg")
	assert.NotErrorIs(t, other, ErrSessionBusy)
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handling update: %w", ErrSessionBusy)
	assert.ErrorIs(t, err, ErrSessionBusy)
}

func TestWithContext(t *testing.T) {
	err := NewExternalAPIError(errors.New("timeout"), "places").WithContext("status", "UNKNOWN_ERROR")
	assert.Equal(t, "places", err.Context["api"])
	assert.Equal(t, "UNKNOWN_ERROR", err.Context["status"])
}

func TestLogFields(t *testing.T) {
	err := New(ErrorTypeExternal, "EXTERNAL_API", "upstream failed").WithContext("api", "consult")

	fields := err.LogFields()
	require.GreaterOrEqual(t, len(fields), 8)
	assert.Contains(t, fields, "error_type")
	assert.Contains(t, fields, ErrorTypeExternal)
	assert.Contains(t, fields, "consult")
}

func TestErrorAsFromPlainError(t *testing.T) {
	var target *AppError
	assert.False(t, errors.As(errors.New("plain"), &target))

	err := NewValidationError("시간은 HH:MM(24시간) 형식으로 입력해주세요.")
	require.True(t, errors.As(err, &target))
	assert.Equal(t, ErrorTypeValidation, target.Type)
}
