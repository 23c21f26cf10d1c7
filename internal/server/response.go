package server

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/lexicon/internal/logger"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes data as JSON with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Logger.Warnw("failed to encode response",
			"request_id", requestID(r),
			"error", err)
	}
}

// writeError maps err onto its status code and writes a JSON error body.
// Errors outside the lexicon taxonomy are logged and reported as 500 without
// their detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Logger.Errorw("request failed",
			"request_id", requestID(r),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		msg = "internal server error"
	}
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// statusFor returns the HTTP status code for an error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.IsAny(err, types.ErrValidation, types.ErrInvalidFilter, types.ErrQueryParse):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// shortID truncates an ID to 8 characters for logging.
func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
