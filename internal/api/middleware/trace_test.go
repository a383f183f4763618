package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/novatasks-api/internal/api/shared"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		shared.RespondWithError(w, r, http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	NewTraceMiddleware(base)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Len(t, traceID, 32)
	assert.Equal(t, traceID, rec.Header().Get(shared.TraceIDHeader))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	logs := buf.String()
	assert.Contains(t, logs, `"msg":"inside handler"`)
	assert.Contains(t, logs, `"trace_id":"`+traceID+`"`)
	assert.Contains(t, logs, `"msg":"request completed"`)
	assert.Contains(t, logs, `"status":418`)
}
