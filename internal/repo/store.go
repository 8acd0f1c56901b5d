// Package repo contains the storage backends for the Travel Timeline API.
// Every backend implements Store; main picks one at startup from config and
// passes it to the services. No business logic lives here, only persistence
// and type mapping.
package repo

import (
	"context"
	"errors"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// Store is the persistence capability the services depend on.
//
// Travels are always read and written as a whole list in their stored order.
// Order matters: the timeline breaks ties between entries that share an entry
// date by their position in this list, so backends must round-trip it.
type Store interface {
	// GetProfile returns the deployment's profile.
	// Returns domain.ErrNotFound if no profile has been saved yet.
	GetProfile(ctx context.Context) (domain.Profile, error)

	// SaveProfile inserts or replaces the profile with the same ID.
	SaveProfile(ctx context.Context, profile domain.Profile) error

	// GetTravels returns every entry stored for profileID in stored order.
	// A profile with no entries yields an empty, non-nil slice.
	GetTravels(ctx context.Context, profileID string) ([]domain.TravelEntry, error)

	// SaveTravels replaces the entries stored for profileID.
	SaveTravels(ctx context.Context, profileID string, travels []domain.TravelEntry) error

	// ExportData returns the profile and its travels. When no profile exists
	// the backup has a nil Profile and no travels.
	ExportData(ctx context.Context) (domain.Backup, error)

	// ImportData makes backup.Profile the only profile, then replaces its
	// travels. Any other profile is removed along with its travels. A backup
	// without a profile is ignored, since its travels have no owner.
	ImportData(ctx context.Context, backup domain.Backup) error
}

// exportWith implements ExportData on top of the read methods for backends
// that have no cheaper way to do it.
func exportWith(ctx context.Context, s Store) (domain.Backup, error) {
	profile, err := s.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Backup{Travels: []domain.TravelEntry{}}, nil
		}
		return domain.Backup{}, err
	}
	travels, err := s.GetTravels(ctx, profile.ID)
	if err != nil {
		return domain.Backup{}, err
	}
	return domain.Backup{Profile: &profile, Travels: travels}, nil
}
