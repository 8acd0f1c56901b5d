// Package service contains the business logic for the Travel Timeline API.
// Services validate inputs, enforce business rules, and orchestrate store calls.
// No storage code lives here: services depend on the repo.Store interface,
// and the journey derivation lives in the timeline package.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/repo"
	"github.com/pkordes/travel-timeline/internal/timeline"
)

// Services bundles every service over a single store.
// They share one lock, because each of them rewrites the whole travel list
// and concurrent read-modify-write cycles would lose updates.
type Services struct {
	Profiles *ProfileService
	Entries  *EntryService
	Timeline *TimelineService
	Backup   *BackupService
}

// New wires the services. A nil clock means the system clock; a nil logger
// means slog.Default().
func New(store repo.Store, clock timeline.Clock, logger *slog.Logger) *Services {
	if clock == nil {
		clock = timeline.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	st := &state{store: store, clock: clock, logger: logger}
	return &Services{
		Profiles: &ProfileService{state: st},
		Entries:  &EntryService{state: st},
		Timeline: &TimelineService{state: st},
		Backup:   &BackupService{state: st},
	}
}

// state is shared by all services built by New.
type state struct {
	mu     sync.Mutex // guards read-modify-write of profile and travels
	store  repo.Store
	clock  timeline.Clock
	logger *slog.Logger
}

func (s *state) now() time.Time { return s.clock.Now().UTC() }

// profile returns the stored profile, creating the default one on first use.
// Callers must hold s.mu.
func (s *state) profile(ctx context.Context) (domain.Profile, error) {
	p, err := s.store.GetProfile(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{}, err
	}

	now := s.now()
	p = domain.Profile{
		ID:           uuid.NewString(),
		Theme:        domain.ThemeLight,
		HomeLocation: domain.DefaultHome,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return domain.Profile{}, err
	}
	s.logger.InfoContext(ctx, "created default profile", "profile_id", p.ID)
	return p, nil
}

// travels loads the profile and its stored entries. Callers must hold s.mu.
func (s *state) travels(ctx context.Context) (domain.Profile, []domain.TravelEntry, error) {
	p, err := s.profile(ctx)
	if err != nil {
		return domain.Profile{}, nil, err
	}
	travels, err := s.store.GetTravels(ctx, p.ID)
	if err != nil {
		return domain.Profile{}, nil, err
	}
	return p, travels, nil
}

// validateEntry enforces the rules common to create, update and import.
//   - Country must be non-empty (whitespace-only is rejected).
//   - EntryDate must be a valid date; ExitDate, if set, too.
//   - ExitDate, if set, must not be before EntryDate.
//
// Date parse failures are returned as *domain.ParseError.
func validateEntry(e domain.TravelEntry) error {
	if strings.TrimSpace(e.Country) == "" {
		return fmt.Errorf("%w: entry %q: country is required", domain.ErrValidation, e.ID)
	}
	if e.EntryDate == "" {
		return fmt.Errorf("%w: entry %q: entryDate is required", domain.ErrValidation, e.ID)
	}
	entered, err := e.Entered()
	if err != nil {
		return err
	}
	exited, err := e.Exited()
	if err != nil {
		return err
	}
	if exited != nil && exited.Before(entered) {
		return fmt.Errorf("%w: entry %q: exitDate must not be before entryDate", domain.ErrValidation, e.ID)
	}
	return nil
}

// normalizeEntry trims free-text fields and lower-cases the flag code.
func normalizeEntry(e domain.TravelEntry) domain.TravelEntry {
	e.ID = strings.TrimSpace(e.ID)
	e.Country = strings.TrimSpace(e.Country)
	e.City = strings.TrimSpace(e.City)
	e.FlagCode = strings.ToLower(strings.TrimSpace(e.FlagCode))
	return e
}

func indexOf(travels []domain.TravelEntry, id string) int {
	for i, e := range travels {
		if e.ID == id {
			return i
		}
	}
	return -1
}
