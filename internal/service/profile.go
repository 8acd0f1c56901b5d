package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// ProfileService manages the deployment's single profile.
type ProfileService struct {
	*state
}

// Get returns the profile, creating the default one on first use.
func (s *ProfileService) Get(ctx context.Context) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.profile(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Get: %w", err)
	}
	return p, nil
}

// Update replaces the editable profile fields: name, email, theme and home
// location. ID and CreatedAt are kept. An empty theme keeps the current one,
// as does a home location with no country.
// Changing the home location here does not touch stored entries; use SetHome
// for that.
func (s *ProfileService) Update(ctx context.Context, in domain.Profile) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.profile(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Update: %w", err)
	}

	if in.Theme != "" {
		if err := validateTheme(in.Theme); err != nil {
			return domain.Profile{}, err
		}
		p.Theme = in.Theme
	}
	if strings.TrimSpace(in.HomeLocation.Country) != "" {
		p.HomeLocation = normalizeLocation(in.HomeLocation)
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Email = strings.TrimSpace(in.Email)
	p.UpdatedAt = s.now()

	if err := s.store.SaveProfile(ctx, p); err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Update: %w", err)
	}
	return p, nil
}

// SetHome changes the home location and rewrites the country, city and flag
// of every home entry to match, so past returns home follow the move.
// Returns domain.ErrValidation if country or city is empty.
func (s *ProfileService) SetHome(ctx context.Context, home domain.Location) (domain.Profile, error) {
	home = normalizeLocation(home)
	if home.Country == "" || home.City == "" {
		return domain.Profile{}, fmt.Errorf("%w: home country and city are required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, travels, err := s.travels(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.SetHome: %w", err)
	}

	p.HomeLocation = home
	p.UpdatedAt = s.now()
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.SetHome: %w", err)
	}

	rewritten := 0
	for i := range travels {
		if travels[i].IsHome {
			travels[i].Country = home.Country
			travels[i].City = home.City
			travels[i].FlagCode = home.FlagCode
			rewritten++
		}
	}
	if rewritten > 0 {
		if err := s.store.SaveTravels(ctx, p.ID, travels); err != nil {
			return domain.Profile{}, fmt.Errorf("service.ProfileService.SetHome: %w", err)
		}
	}
	s.logger.InfoContext(ctx, "home location changed",
		"country", home.Country, "city", home.City, "home_entries", rewritten)
	return p, nil
}

func validateTheme(t domain.Theme) error {
	switch t {
	case domain.ThemeLight, domain.ThemeDark:
		return nil
	}
	return fmt.Errorf("%w: theme must be %q or %q", domain.ErrValidation, domain.ThemeLight, domain.ThemeDark)
}

func normalizeLocation(l domain.Location) domain.Location {
	return domain.Location{
		Country:  strings.TrimSpace(l.Country),
		City:     strings.TrimSpace(l.City),
		FlagCode: strings.ToLower(strings.TrimSpace(l.FlagCode)),
	}
}
