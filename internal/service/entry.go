package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/timeline"
)

// EntryService implements CRUD over the stored travel entries.
// Entries are stored as one list; every write loads, edits and saves it
// under the shared lock. Updates keep an entry's position in the list.
type EntryService struct {
	*state
}

// Create validates and appends a new entry. A UUID is assigned when ID is empty.
// Returns domain.ErrValidation or a *domain.ParseError for invalid input, and
// domain.ErrConflict when the caller-supplied ID is already taken.
func (s *EntryService) Create(ctx context.Context, e domain.TravelEntry) (domain.TravelEntry, error) {
	e = normalizeEntry(e)
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := validateEntry(e); err != nil {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.Create: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, travels, err := s.travels(ctx)
	if err != nil {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.Create: %w", err)
	}
	if indexOf(travels, e.ID) >= 0 {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.Create: entry %q: %w", e.ID, domain.ErrConflict)
	}

	if err := s.store.SaveTravels(ctx, p.ID, append(travels, e)); err != nil {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.Create: %w", err)
	}
	return e, nil
}

// GetByID returns a single entry.
// Returns domain.ErrNotFound if no entry has that ID.
func (s *EntryService) GetByID(ctx context.Context, id string) (domain.TravelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, travels, err := s.travels(ctx)
	if err != nil {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.GetByID: %w", err)
	}
	i := indexOf(travels, id)
	if i < 0 {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.GetByID: entry %q: %w", id, domain.ErrNotFound)
	}
	return travels[i], nil
}

// List returns one page of entries in chronological order, plus the total
// number of entries. Always returns a non-nil slice.
func (s *EntryService) List(ctx context.Context, params domain.PaginationParams) ([]domain.TravelEntry, int, error) {
	s.mu.Lock()
	_, travels, err := s.travels(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, 0, fmt.Errorf("service.EntryService.List: %w", err)
	}

	sorted, err := timeline.Sort(travels)
	if err != nil {
		return nil, 0, fmt.Errorf("service.EntryService.List: %w", err)
	}

	start, end := params.Bounds(len(sorted))
	return slices.Clone(sorted[start:end]), len(sorted), nil
}

// Update replaces the entry with the same ID, keeping its list position.
// Returns domain.ErrNotFound if the entry does not exist.
func (s *EntryService) Update(ctx context.Context, e domain.TravelEntry) (domain.TravelEntry, error) {
	e = normalizeEntry(e)
	if err := validateEntry(e); err != nil {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.Update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, travels, err := s.travels(ctx)
	if err != nil {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.Update: %w", err)
	}
	i := indexOf(travels, e.ID)
	if i < 0 {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.Update: entry %q: %w", e.ID, domain.ErrNotFound)
	}

	travels[i] = e
	if err := s.store.SaveTravels(ctx, p.ID, travels); err != nil {
		return domain.TravelEntry{}, fmt.Errorf("service.EntryService.Update: %w", err)
	}
	return e, nil
}

// Delete removes an entry by ID.
// Returns domain.ErrNotFound if the entry does not exist.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, travels, err := s.travels(ctx)
	if err != nil {
		return fmt.Errorf("service.EntryService.Delete: %w", err)
	}
	i := indexOf(travels, id)
	if i < 0 {
		return fmt.Errorf("service.EntryService.Delete: entry %q: %w", id, domain.ErrNotFound)
	}

	if err := s.store.SaveTravels(ctx, p.ID, slices.Delete(travels, i, i+1)); err != nil {
		return fmt.Errorf("service.EntryService.Delete: %w", err)
	}
	return nil
}
