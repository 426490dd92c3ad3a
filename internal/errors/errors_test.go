package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := ValidationError("confidence outside [0,1]")
	assert.Equal(t, "validation: confidence outside [0,1]", err.Error())
}

func TestError_MessageWithCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := PersistenceError("failed to append result", cause)
	assert.Equal(t, "persistence: failed to append result: connection refused", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("timeout")
	err := ExternalError("enhancer call failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{ValidationError("bad"), http.StatusBadRequest},
		{NotFoundError("gone"), http.StatusNotFound},
		{MissingDataError("empty window"), http.StatusInternalServerError},
		{ExternalError("llm", nil), http.StatusBadGateway},
		{PersistenceError("write", nil), http.StatusInternalServerError},
		{AlertDeliveryError("publish", nil), http.StatusInternalServerError},
		{InternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus(), string(tt.err.Type))
	}
}

func TestIsType(t *testing.T) {
	err := PersistenceError("append failed", stderrors.New("down"))
	assert.True(t, IsType(err, TypePersistence))
	assert.False(t, IsType(err, TypeValidation))
	assert.False(t, IsType(stderrors.New("plain"), TypePersistence))
}

func TestWithContext(t *testing.T) {
	err := ValidationError("bad observation").
		WithContext("modality", "video").
		WithContext("confidence", 1.5)

	assert.Equal(t, "video", err.Context["modality"])
	assert.Equal(t, 1.5, err.Context["confidence"])
}

func TestAsStructuredError_PassThrough(t *testing.T) {
	original := NotFoundError("session missing")
	converted := AsStructuredError(original)
	assert.Same(t, original, converted)
}

func TestAsStructuredError_WrapsPlainError(t *testing.T) {
	converted := AsStructuredError(stderrors.New("boom"))
	require.NotNil(t, converted)
	assert.Equal(t, TypeInternal, converted.Type)
}

func TestAsStructuredError_Nil(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))
}

func TestToResponse(t *testing.T) {
	err := ValidationError("bad").WithContext("field", "stability")
	resp := err.ToResponse()

	assert.Equal(t, "bad", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
	assert.Equal(t, "stability", resp.Context["field"])
}
