package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
)

// ContextKey is the type of the keys this package stores in a context.
type ContextKey string

const (
	// CallerContextKey is the context key for the authenticated domain.Caller
	CallerContextKey ContextKey = "caller"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, generateTraceID())
}

// WithTraceID adds the given trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID returns 32 lowercase hex characters.
func generateTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithCaller stores the authenticated caller in the context.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, caller)
}

// CallerFromContext returns the authenticated caller, if any.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(CallerContextKey).(domain.Caller)
	return caller, ok
}
