package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/novatasks-api/internal/platform/logger"
	"github.com/phrazzld/novatasks-api/internal/redact"
)

// TraceIDHeader carries the request's trace ID on every response.
const TraceIDHeader = "X-Trace-ID"

// Envelope is the body of every API response.
//
// Successful responses set Success and Data; list responses add Count; auth
// responses add Token. Failures set only Success=false and Message.
type Envelope struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level. Use for operational issues such as
// repeated authorization failures.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if traceID := GetTraceID(r.Context()); traceID != "" {
		w.Header().Set(TraceIDHeader, traceID)
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a successful envelope carrying data.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data any) {
	RespondWithJSON(w, r, status, Envelope{Success: true, Data: data})
}

// RespondWithList writes a successful envelope carrying a list and its length.
func RespondWithList[T any](w http.ResponseWriter, r *http.Request, status int, items []T) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	RespondWithJSON(w, r, status, Envelope{Success: true, Count: &count, Data: items})
}

// RespondWithToken writes a successful envelope carrying a bearer token and data.
func RespondWithToken(w http.ResponseWriter, r *http.Request, status int, token string, data any) {
	RespondWithJSON(w, r, status, Envelope{Success: true, Token: token, Data: data})
}

// RespondWithError writes a failure envelope with the given status code and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logger.FromContext(r.Context()).Debug("sending error response",
		"status_code", status,
		"message", message,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, Envelope{Success: false, Message: message})
}

// RespondWithErrorAndLog writes a failure envelope and logs the redacted error.
// The raw error string never reaches the client; userMessage does.
//
// Log level strategy:
// - 5xx errors: ERROR
// - 4xx errors: DEBUG, or WARN with WithElevatedLogLevel
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	logAttrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if responseOpts.elevateLogLevel && status >= http.StatusBadRequest {
		logLevel = slog.LevelWarn
	}

	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, Envelope{Success: false, Message: userMessage})
}
