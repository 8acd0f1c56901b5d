package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// bindAsOf binds the optional ?asOf=YYYY-MM-DD query parameter.
// Returns nil when the parameter is absent.
func bindAsOf(r *http.Request) (*time.Time, error) {
	var asOf *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, "asOf", r.URL.Query(), &asOf); err != nil {
		return nil, fmt.Errorf("invalid asOf: %w", err)
	}
	if asOf == nil {
		return nil, nil
	}
	t := asOf.Time
	return &t, nil
}

// bindPage binds the optional ?page= and ?limit= query parameters.
func bindPage(r *http.Request) (page, limit *int, err error) {
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return nil, nil, fmt.Errorf("invalid page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return nil, nil, fmt.Errorf("invalid limit: %w", err)
	}
	return page, limit, nil
}

// bindString binds an optional string query parameter, returning fallback
// when it is absent.
func bindString(r *http.Request, name, fallback string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	if v == nil || *v == "" {
		return fallback, nil
	}
	return *v, nil
}

// decodeJSON decodes the request body into v. It writes the error response
// itself and returns false when decoding fails: 413 for an oversized body,
// 400 for anything else.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErrorBody(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return false
	}
	badRequest(w, "malformed JSON body: "+err.Error())
	return false
}
