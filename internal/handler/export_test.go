package handler_test

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-timeline/internal/domain"
)

func TestGetExport_JSON(t *testing.T) {
	h, _ := newHTTPHandler(t, sampleTravels()...)

	rec := do(t, h, http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]map[string]any](t, rec)
	require.Len(t, rows, 5)
	assert.Equal(t, "journey-2", rows[1]["journeyId"])
	assert.Equal(t, "2023-02-10", rows[1]["effectiveExitDate"])
	assert.NotContains(t, rows[1], "exitDate", "inferred exit dates are not stored")
	assert.Equal(t, "2023-02-20", rows[2]["exitDate"])
}

func TestGetExport_CSV(t *testing.T) {
	h, _ := newHTTPHandler(t, sampleTravels()...)

	rec := do(t, h, http.MethodGet, "/export?format=csv&asOf=2023-12-30", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6, "header plus one row per entry")
	assert.Equal(t, "journey_id", records[0][0])
	assert.Equal(t, []string{
		"journey-3", "true", "5", "Japan", "Tokyo", "jp",
		"2023-12-20", "", "2023-12-30", "10", "false",
	}, records[5])
}

func TestGetExport_Backup(t *testing.T) {
	h, _ := newHTTPHandler(t, sampleTravels()...)

	rec := do(t, h, http.MethodGet, "/export?format=backup", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	backup := decode[domain.Backup](t, rec)
	require.NotNil(t, backup.Profile)
	assert.Equal(t, sampleTravels(), backup.Travels)
}

func TestGetExport_UnknownFormat(t *testing.T) {
	h, _ := newHTTPHandler(t)

	rec := do(t, h, http.MethodGet, "/export?format=xml", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
