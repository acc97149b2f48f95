package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorWrapping(t *testing.T) {
	base := NewUpstreamError("classifier unavailable", io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("upload: %w", base)

	apiErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	assert.True(t, IsUpstream(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
	assert.Contains(t, base.Error(), "internal: unexpected EOF")
}

func TestWrapKeepsExistingType(t *testing.T) {
	nf := NewNotFoundError("upload not found", nil)
	assert.Same(t, nf, Wrap(fmt.Errorf("get: %w", nf), "ignored"))

	plain := Wrap(io.EOF, "boom")
	assert.Equal(t, ErrorTypeInternal, plain.Type)
	assert.Equal(t, "boom", plain.Message)
}

func TestWithRequestID(t *testing.T) {
	err := NewConflictError("busy", nil).WithRequestID("req_1").WithDetails(map[string]string{"op": "upload"})
	assert.Equal(t, "req_1", err.RequestID)
	assert.Equal(t, http.StatusConflict, err.Code)
	assert.Equal(t, "conflict: busy", err.Error())
}
