package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContextAndFromContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContextReturnsNopWhenMissing(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	newCtx, newLogger := WithRequestID(ctx, logger, "req-123")

	assert.NotNil(t, newLogger)
	assert.Equal(t, "req-123", GetRequestID(newCtx))
}

func TestWithUserID(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	newCtx, newLogger := WithUserID(ctx, logger, "user-1")

	assert.NotNil(t, newLogger)
	assert.Equal(t, "user-1", GetUserID(newCtx))
}

func TestGetRequestIDNotFound(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetUserID(context.Background()))
}

func TestContextKeysAreDistinct(t *testing.T) {
	assert.NotEqual(t, LoggerKey, RequestIDKey)
	assert.NotEqual(t, RequestIDKey, UserIDKey)
}
