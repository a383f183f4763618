package shared

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), traceID)
	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(context.Background())))
}

func TestGetTraceIDWithoutValue(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
	ctx := context.WithValue(context.Background(), TraceIDKey, 42)
	assert.Equal(t, "", GetTraceID(ctx))
}

func TestCallerContext(t *testing.T) {
	_, ok := CallerFromContext(context.Background())
	assert.False(t, ok)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
	got, ok := CallerFromContext(WithCaller(context.Background(), caller))
	assert.True(t, ok)
	assert.Equal(t, caller, got)
}
