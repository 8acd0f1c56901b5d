package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeError maps a service error to its HTTP status and error body.
// Unrecognised errors and invariant violations are logged and reported as
// 500 without leaking their text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrConflict):
		writeErrorBody(w, http.StatusConflict, "conflict", unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrParse):
		writeErrorBody(w, http.StatusUnprocessableEntity, "invalid_date", unwrapMessage(err))
	case errors.As(err, &tooLarge):
		writeErrorBody(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// badRequest reports a request rejected before reaching the service layer,
// e.g. a malformed body or query parameter.
func badRequest(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusBadRequest, "bad_request", message)
}

// unwrapMessage extracts the human-readable part from a wrapped error by
// dropping the "pkg.Type.Method: " operation prefixes and the sentinel text.
// e.g. "service.EntryService.Create: validation error: entry \"x\": country is required"
// becomes "entry \"x\": country is required".
func unwrapMessage(err error) string {
	msg := err.Error()
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || !isOpPrefix(head) {
			break
		}
		msg = rest
	}
	return strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
}

// isOpPrefix reports whether s looks like "service.EntryService.Create".
func isOpPrefix(s string) bool {
	return strings.Count(s, ".") == 2 && !strings.ContainsAny(s, " \"")
}
