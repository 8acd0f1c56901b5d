package handler

import (
	"net/http"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/timeline"
)

type entryViewResponse struct {
	Entry             domain.TravelEntry `json:"entry"`
	EffectiveExitDate string             `json:"effectiveExitDate"`
	Inferred          bool               `json:"inferred"`
	DurationDays      int                `json:"durationDays"`
}

type journeyResponse struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Open      bool                `json:"open"`
	TotalDays int                 `json:"totalDays"`
	Entries   []entryViewResponse `json:"entries"`
}

// ListJourneys handles GET /journeys.
// ?asOf=YYYY-MM-DD pins "today" for the latest open entry.
func (s *Server) ListJourneys(w http.ResponseWriter, r *http.Request) {
	asOf, err := bindAsOf(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	views, err := s.timeline.Build(r.Context(), asOf)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.ObserveTimeline(len(views))

	out := make([]journeyResponse, len(views))
	for i, v := range views {
		out[i] = journeyToResponse(v)
	}
	writeJSON(w, http.StatusOK, out)
}

func journeyToResponse(v timeline.JourneyView) journeyResponse {
	entries := make([]entryViewResponse, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = entryViewResponse{
			Entry:             e.Entry,
			EffectiveExitDate: e.EffectiveExitDate,
			Inferred:          e.Inferred,
			DurationDays:      e.DurationDays,
		}
	}
	return journeyResponse{
		ID:        v.ID,
		Title:     v.Title,
		StartDate: v.StartDate,
		EndDate:   v.EndDate,
		Open:      v.Open,
		TotalDays: v.TotalDays,
		Entries:   entries,
	}
}
