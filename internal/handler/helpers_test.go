package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/handler"
	"github.com/pkordes/travel-timeline/internal/repo"
	"github.com/pkordes/travel-timeline/internal/service"
	"github.com/pkordes/travel-timeline/internal/timeline"
)

var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// newHTTPHandler wires real services over a MemoryStore holding travels,
// with the clock pinned to testNow. This mirrors how main.go wires it.
func newHTTPHandler(t *testing.T, travels ...domain.TravelEntry) (http.Handler, *repo.MemoryStore) {
	t.Helper()
	store := repo.NewMemoryStore()
	svc := service.New(store, timeline.FixedClock(testNow), nil)
	if travels != nil {
		_, err := svc.Backup.Import(context.Background(), domain.Backup{Travels: travels})
		require.NoError(t, err)
	}
	return handler.NewFromServices(svc, nil, nil).Routes(), store
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// sampleTravels is a closed journey through France and Spain followed by an
// open trip to Japan.
func sampleTravels() []domain.TravelEntry {
	return []domain.TravelEntry{
		{ID: "1", Country: "United Kingdom", City: "London", EntryDate: "2023-01-01", IsHome: true, FlagCode: "gb"},
		{ID: "2", Country: "France", City: "Paris", EntryDate: "2023-02-01", FlagCode: "fr"},
		{ID: "3", Country: "Spain", City: "Madrid", EntryDate: "2023-02-10", ExitDate: "2023-02-20", FlagCode: "es"},
		{ID: "4", Country: "United Kingdom", City: "London", EntryDate: "2023-03-01", IsHome: true, FlagCode: "gb"},
		{ID: "5", Country: "Japan", City: "Tokyo", EntryDate: "2023-12-20", FlagCode: "jp"},
	}
}
