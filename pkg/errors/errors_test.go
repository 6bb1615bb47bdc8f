package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reasonError struct {
	code string
}

func (e *reasonError) Error() string { return "reason: " + e.code }
func (e *reasonError) Code() string  { return e.code }
func (e *reasonError) Unwrap() error { return nil }

func TestGetCodeMapping(t *testing.T) {
	tests := []struct {
		code     string
		wantHTTP int
		wantGRPC int
	}{
		{ErrNotFound, http.StatusNotFound, 5},
		{ErrConflict, http.StatusConflict, 6},
		{ErrExpired, http.StatusGone, 9},
		{ErrAmountMismatch, http.StatusUnprocessableEntity, 3},
		{ErrExternalDependency, http.StatusBadGateway, 14},
		{"SOMETHING_ELSE", http.StatusInternalServerError, 13},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			httpStatus, grpcCode := GetCodeMapping(tt.code)
			assert.Equal(t, tt.wantHTTP, httpStatus)
			assert.Equal(t, tt.wantGRPC, grpcCode)
		})
	}
}

func TestWrap_KeepsCode(t *testing.T) {
	base := &reasonError{code: ErrExpired}
	wrapped := Wrap(fmt.Errorf("lookup: %w", base), "verify payment")

	require.Error(t, wrapped)
	assert.Equal(t, ErrExpired, CodeOf(wrapped))
	assert.True(t, Is(wrapped, base))
	assert.Nil(t, Wrap(nil, "noop"))
	assert.Equal(t, ErrInternal, CodeOf(Wrap(New("plain"), "context")))
}

func TestToHTTPError(t *testing.T) {
	t.Run("coded error", func(t *testing.T) {
		he := ToHTTPError(NewAppError(ErrNotFound, "booking not found", nil))
		assert.Equal(t, http.StatusNotFound, he.Code)
		assert.Equal(t, "booking not found", he.Message)
	})

	t.Run("custom coded error", func(t *testing.T) {
		he := ToHTTPError(&reasonError{code: ErrAmountMismatch})
		assert.Equal(t, http.StatusUnprocessableEntity, he.Code)
	})

	t.Run("echo error passes through", func(t *testing.T) {
		orig := echo.NewHTTPError(http.StatusTeapot, "tea")
		assert.Same(t, orig, ToHTTPError(orig))
	})

	t.Run("plain error", func(t *testing.T) {
		he := ToHTTPError(New("boom"))
		assert.Equal(t, http.StatusInternalServerError, he.Code)
	})
}

func TestFromHTTPError(t *testing.T) {
	err := FromHTTPError(echo.NewHTTPError(http.StatusGone, "gone"))
	assert.Equal(t, ErrExpired, CodeOf(err))

	err = FromHTTPError(echo.NewHTTPError(http.StatusBadGateway, "bank down"))
	assert.Equal(t, ErrExternalDependency, CodeOf(err))
}

func TestAppError_IsSentinel(t *testing.T) {
	sentinel := NewAppError(ErrNotFound, "booking not found", nil)
	err := fmt.Errorf("get booking: %w", NewAppError(ErrNotFound, "booking not found", nil))

	assert.True(t, Is(err, sentinel))
	assert.False(t, Is(err, NewAppError(ErrNotFound, "payment not found", nil)))
}
