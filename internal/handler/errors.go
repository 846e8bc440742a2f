package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// ErrorDetail is the machine-readable body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail under an "error" key.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON encodes v with the given status. Encoding failures are logged;
// by then the status line is already on the wire, so nothing else can be done.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes a structured error body with the given status.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// respondServiceError maps service-layer sentinel errors onto HTTP statuses:
// domain.ErrNotFound → 404, domain.ErrValidation → 422, anything else →
// logged and 500 with a generic banner (local state is the caller's problem;
// the body never leaks internals).
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", notFoundMessage)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.TripService.Create: validation error: title is
// required" → "title is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i != -1 {
		return msg[i+len(marker):]
	}
	return msg
}

// parseID parses a decimal string as an int64 identifier.
func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
