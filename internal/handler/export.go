package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// Export formats accepted by GET /export?format=.
const (
	formatJSON   = "json"
	formatCSV    = "csv"
	formatBackup = "backup"
)

type exportRowResponse struct {
	JourneyID         string `json:"journeyId"`
	JourneyOpen       bool   `json:"journeyOpen"`
	EntryID           string `json:"entryId"`
	Country           string `json:"country"`
	City              string `json:"city"`
	FlagCode          string `json:"flagCode"`
	EntryDate         string `json:"entryDate"`
	ExitDate          string `json:"exitDate,omitempty"`
	IsHome            bool   `json:"isHome"`
	EffectiveExitDate string `json:"effectiveExitDate"`
	DurationDays      int    `json:"durationDays"`
}

// GetExport handles GET /export.
//   - format=json (default): flat rows, one per entry in chronological order.
//   - format=csv: the same rows as CSV.
//   - format=backup: the full backup document, importable via POST /import.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format, err := bindString(r, "format", formatJSON)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	asOf, err := bindAsOf(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	switch format {
	case formatBackup:
		backup, err := s.backup.Export(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="travel-timeline-backup.json"`)
		writeJSON(w, http.StatusOK, backup)

	case formatJSON, formatCSV:
		rows, err := s.backup.Rows(r.Context(), asOf)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if format == formatCSV {
			writeCSV(w, rows)
			return
		}
		out := make([]exportRowResponse, len(rows))
		for i, row := range rows {
			out[i] = exportRowResponse(row)
		}
		writeJSON(w, http.StatusOK, out)

	default:
		badRequest(w, "format must be json, csv or backup")
	}
}

// writeCSV encodes rows as an attachment with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	domain.WriteCSV(&buf, rows)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="travel-timeline.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
