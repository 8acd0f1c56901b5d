package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// PostImport handles POST /import.
// The body is either a backup document ({"profile":...,"travels":[...]}) or
// a bare array of entries; either way the stored entries are replaced.
func (s *Server) PostImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorBody(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return
		}
		badRequest(w, "read body: "+err.Error())
		return
	}

	backup, err := parseImport(body)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	n, err := s.backup.Import(r.Context(), backup)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.AddEntriesImported(n)
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// parseImport decodes either accepted import shape into a Backup.
func parseImport(body []byte) (domain.Backup, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return domain.Backup{}, errors.New("empty body")
	}

	if trimmed[0] == '[' {
		var travels []domain.TravelEntry
		if err := json.Unmarshal(trimmed, &travels); err != nil {
			return domain.Backup{}, errors.New("malformed entry array: " + err.Error())
		}
		return domain.Backup{Travels: travels}, nil
	}

	var backup domain.Backup
	if err := json.Unmarshal(trimmed, &backup); err != nil {
		return domain.Backup{}, errors.New("malformed backup document: " + err.Error())
	}
	if backup.Travels == nil && backup.Profile == nil {
		return domain.Backup{}, errors.New("backup document has neither profile nor travels")
	}
	return backup, nil
}
