package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/api/shared"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/stretchr/testify/require"
)

var (
	ownerCaller = domain.Caller{ID: uuid.New(), Role: domain.RoleUser}
	adminCaller = domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
)

// testEnvelope mirrors shared.Envelope with raw data for per-test decoding.
type testEnvelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// newTestRequest builds a request with an optional JSON body, an optional
// authenticated caller and chi URL params.
func newTestRequest(
	t *testing.T,
	method, path string,
	body any,
	caller *domain.Caller,
	params map[string]string,
) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if caller != nil {
		ctx = shared.WithCaller(ctx, *caller)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env), "response body should be an envelope")
	return env
}

func sampleTask(ownerID uuid.UUID, title string) *domain.Task {
	task, err := domain.NewTask(ownerID, title, "description for "+title, domain.TaskStatusPending)
	if err != nil {
		panic(err)
	}
	return task
}

func ptr[T any](v T) *T {
	return &v
}
