package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/api/middleware"
	"github.com/phrazzld/novatasks-api/internal/api/shared"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/platform/logger"
)

// getPathUUID extracts a UUID from the URL path parameters.
// ok is false when the parameter is missing or not a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// handleCallerAndPathUUID extracts the caller from context and a UUID from the
// path. It writes the error response and returns false if either is missing.
//
// An id that is not a UUID cannot name a stored row, so it is answered with
// notFoundMsg rather than a validation error.
func handleCallerAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	notFoundMsg string,
) (domain.Caller, uuid.UUID, bool) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return domain.Caller{}, uuid.Nil, false
	}

	id, ok := getPathUUID(r, paramName)
	if !ok {
		logger.FromContext(r.Context()).Debug("malformed path id",
			"param_name", paramName,
			"value", chi.URLParam(r, paramName))
		shared.RespondWithError(w, r, http.StatusNotFound, notFoundMsg)
		return domain.Caller{}, uuid.Nil, false
	}

	return caller, id, true
}

// requireCaller returns the authenticated caller or writes a 401.
func requireCaller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	caller, ok := middleware.GetCaller(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.MsgNotAuthorizedRoute)
		return domain.Caller{}, false
	}
	return caller, true
}

// decodeBody decodes the JSON body into v, writing a 400 with the decoder
// message on failure. An empty body decodes as an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, err.Error(), err)
		return false
	}
	return true
}
