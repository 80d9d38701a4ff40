package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/taskd/internal/taskd/service"
	"github.com/aussiebroadwan/taskd/pkg/httpx"
	"github.com/aussiebroadwan/taskd/pkg/slogx"
	"github.com/aussiebroadwan/taskd/pkg/taskdsdk"
)

// errorStatus maps a service error kind to its response status and code.
var errorStatus = []struct {
	kind   error
	status int
	code   string
}{
	{service.ErrValidation, http.StatusBadRequest, taskdsdk.ErrorCodeValidation},
	{service.ErrConflict, http.StatusConflict, taskdsdk.ErrorCodeConflict},
	{service.ErrAuthenticationRequired, http.StatusUnauthorized, taskdsdk.ErrorCodeAuthenticationRequired},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, taskdsdk.ErrorCodeInvalidCredentials},
	{service.ErrPermissionDenied, http.StatusForbidden, taskdsdk.ErrorCodePermissionDenied},
	{service.ErrNotFound, http.StatusNotFound, taskdsdk.ErrorCodeNotFound},
}

// writeServiceError writes err as a JSON error. Anything that is not one of
// the service kinds is logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorStatus {
		if !errors.Is(err, m.kind) {
			continue
		}

		apiErr := taskdsdk.NewAPIError(m.status, m.code, err.Error())
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			apiErr.Description = "validation failed"
			apiErr.Details = ve.Fields
		}
		if m.status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", `Bearer realm="taskd"`)
		}
		apiErr.WriteError(w)
		return
	}

	slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
	taskdsdk.ErrServerError.WriteError(w)
}

// decodeBody decodes the JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		e := *taskdsdk.ErrInvalidRequest
		e.Description = "request body must be a single valid JSON object: " + err.Error()
		e.WriteError(w)
		return false
	}
	return true
}
