package library

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("failed to load book: %w", NotFound("book %s", "b1"))

	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.False(t, IsRetryable(err))
	assert.Equal(t, KindRuntime, KindOf(fmt.Errorf("plain")))
}

func TestVersionConflictIsNotRetryable(t *testing.T) {
	err := VersionConflict("checkout", "c1", 3)

	assert.True(t, IsVersionConflict(err))
	assert.True(t, IsKind(err, KindCurrentlyUnavailable))
	assert.False(t, IsRetryable(err))
	assert.False(t, IsVersionConflict(Unavailable("dispatch", true, "down")))
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code      int
		kind      Kind
		retryable bool
	}{
		{http.StatusNotFound, KindNotFound, false},
		{http.StatusForbidden, KindAccessDenied, false},
		{http.StatusUnauthorized, KindAccessDenied, false},
		{http.StatusConflict, KindCurrentlyUnavailable, false},
		{http.StatusTooManyRequests, KindCurrentlyUnavailable, true},
		{http.StatusBadRequest, KindValidation, false},
		{http.StatusInternalServerError, KindDatabase, true},
		{http.StatusBadGateway, KindDatabase, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := FromStatus(tt.code, "boom")
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.retryable, err.Retryable)
		})
	}
}

func TestFromTransport(t *testing.T) {
	timeout := FromTransport(context.DeadlineExceeded, "lookup")
	assert.Equal(t, KindCurrentlyUnavailable, timeout.Kind)
	assert.True(t, timeout.Retryable)
	assert.Equal(t, "timeout", timeout.ReasonCode)

	canceled := FromTransport(context.Canceled, "lookup")
	assert.Equal(t, KindRuntime, canceled.Kind)
	assert.False(t, canceled.Retryable)

	dispatch := FromTransport(fmt.Errorf("connection refused"), "lookup")
	require.Equal(t, "dispatch", dispatch.ReasonCode)
	assert.True(t, dispatch.Retryable)
}

func TestErrorMessage(t *testing.T) {
	err := Validation("400", "book %s is not available", "b1")
	assert.Equal(t, "validation: book b1 is not available (400)", err.Error())
}
