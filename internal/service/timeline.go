package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/timeline"
)

// ExitDate is the resolved departure of one entry.
type ExitDate struct {
	ID                string `json:"id"`
	EffectiveExitDate string `json:"effectiveExitDate"`
	Inferred          bool   `json:"inferred"`
}

// TimelineService runs the journey derivation over the stored entries.
type TimelineService struct {
	*state
}

// Build returns the journey views for every stored entry.
// asOf pins "today" for the latest open entry; nil uses the service clock.
func (s *TimelineService) Build(ctx context.Context, asOf *time.Time) ([]timeline.JourneyView, error) {
	travels, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TimelineService.Build: %w", err)
	}
	views, err := s.resolver(asOf).Views(travels)
	if err != nil {
		return nil, fmt.Errorf("service.TimelineService.Build: %w", err)
	}
	return views, nil
}

// ExitDate resolves the effective exit date of one entry.
// Returns domain.ErrNotFound if no entry has that ID.
func (s *TimelineService) ExitDate(ctx context.Context, id string, asOf *time.Time) (ExitDate, error) {
	travels, err := s.load(ctx)
	if err != nil {
		return ExitDate{}, fmt.Errorf("service.TimelineService.ExitDate: %w", err)
	}
	i := indexOf(travels, id)
	if i < 0 {
		return ExitDate{}, fmt.Errorf("service.TimelineService.ExitDate: entry %q: %w", id, domain.ErrNotFound)
	}

	exit, err := s.resolver(asOf).EffectiveExitDate(travels[i], travels)
	if err != nil {
		return ExitDate{}, fmt.Errorf("service.TimelineService.ExitDate: %w", err)
	}
	return ExitDate{ID: id, EffectiveExitDate: exit, Inferred: travels[i].ExitDate == ""}, nil
}

func (s *TimelineService) load(ctx context.Context) ([]domain.TravelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, travels, err := s.travels(ctx)
	return travels, err
}

func (s *TimelineService) resolver(asOf *time.Time) *timeline.Resolver {
	if asOf != nil {
		return timeline.New(timeline.FixedClock(*asOf))
	}
	return timeline.New(s.clock)
}
