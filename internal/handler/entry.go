package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// pagination is the paging block of a list response.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"totalPages"`
}

type entryListResponse struct {
	Data       []domain.TravelEntry `json:"data"`
	Pagination pagination           `json:"pagination"`
}

// ListEntries handles GET /entries.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
// The total count is also sent in the X-Total-Count header.
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	page, limit, err := bindPage(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	params := domain.NewPaginationParams(page, limit)

	entries, total, err := s.entries.List(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, entryListResponse{
		Data:       entries,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total, Pages: params.Pages(total)},
	})
}

// CreateEntry handles POST /entries. The ID is generated when omitted.
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var e domain.TravelEntry
	if !decodeJSON(w, r, &e) {
		return
	}
	created, err := s.entries.Create(r.Context(), e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/entries/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// GetEntry handles GET /entries/{id}.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.entries.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// UpdateEntry handles PUT /entries/{id}. The path ID wins; a conflicting ID
// in the body is rejected.
func (s *Server) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var e domain.TravelEntry
	if !decodeJSON(w, r, &e) {
		return
	}
	if e.ID != "" && e.ID != id {
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", "body id does not match path id")
		return
	}
	e.ID = id

	updated, err := s.entries.Update(r.Context(), e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteEntry handles DELETE /entries/{id}.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.entries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetExitDate handles GET /entries/{id}/exit-date.
func (s *Server) GetExitDate(w http.ResponseWriter, r *http.Request) {
	asOf, err := bindAsOf(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	exit, err := s.timeline.ExitDate(r.Context(), chi.URLParam(r, "id"), asOf)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exit)
}
