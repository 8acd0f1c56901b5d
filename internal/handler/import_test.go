package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/middleware"
)

func TestPostImport_BareArray(t *testing.T) {
	h, store := newHTTPHandler(t)

	rec := do(t, h, http.MethodPost, "/import", sampleTravels())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"imported":5}`, rec.Body.String())

	backup, err := store.ExportData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleTravels(), backup.Travels)
}

func TestPostImport_BackupDocument(t *testing.T) {
	h, store := newHTTPHandler(t)
	body := `{
		"profile": {"id": "from-file", "name": "Ada", "theme": "dark",
		            "homeLocation": {"country": "Ireland", "city": "Dublin", "flagCode": "ie"}},
		"travels": [{"id": "a", "country": "Ireland", "city": "Dublin", "entryDate": "2022-01-01", "isHome": true}]
	}`

	rec := do(t, h, http.MethodPost, "/import", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile, err := store.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-file", profile.ID)
	assert.Equal(t, domain.ThemeDark, profile.Theme)
}

func TestPostImport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"empty", "", http.StatusBadRequest},
		{"not json", "hello", http.StatusBadRequest},
		{"empty document", "{}", http.StatusBadRequest},
		{"invalid entry", `[{"id":"a","country":"Peru","entryDate":"2023-02-30"}]`, http.StatusUnprocessableEntity},
		{"duplicate ids", `[{"id":"a","country":"Peru","entryDate":"2023-01-01"},{"id":"a","country":"Chile","entryDate":"2023-01-02"}]`, http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newHTTPHandler(t, sampleTravels()...)

			rec := do(t, h, http.MethodPost, "/import", tc.body)

			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
		})
	}
}

// TestPostImport_StreamingBodyTooLarge verifies that a body without a
// Content-Length that overruns the size limit is reported as 413.
func TestPostImport_StreamingBodyTooLarge(t *testing.T) {
	h, _ := newHTTPHandler(t)
	limited := middleware.NewMaxBodySizeHandler(16)(h)

	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(`[{"id":"a","country":"Peru","entryDate":"2023-01-01"}]`))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
