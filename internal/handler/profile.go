package handler

import (
	"net/http"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// profileInput is the PUT /profile body. Every field is optional.
type profileInput struct {
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Theme        domain.Theme     `json:"theme"`
	HomeLocation *domain.Location `json:"homeLocation"`
}

// GetProfile handles GET /profile. The default profile is created on first call.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProfile handles PUT /profile.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in profileInput
	if !decodeJSON(w, r, &in) {
		return
	}

	p := domain.Profile{Name: in.Name, Email: in.Email, Theme: in.Theme}
	if in.HomeLocation != nil {
		p.HomeLocation = *in.HomeLocation
	}
	updated, err := s.profiles.Update(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SetHome handles PUT /profile/home. Home entries are rewritten to the new
// location.
func (s *Server) SetHome(w http.ResponseWriter, r *http.Request) {
	var home domain.Location
	if !decodeJSON(w, r, &home) {
		return
	}
	updated, err := s.profiles.SetHome(r.Context(), home)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
