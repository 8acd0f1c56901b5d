package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// MemoryStore keeps everything in process memory. It is the default backend
// and the one used by service and handler tests. Data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	profile *domain.Profile
	travels map[string][]domain.TravelEntry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{travels: make(map[string][]domain.TravelEntry)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) GetProfile(_ context.Context) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return domain.Profile{}, domain.ErrNotFound
	}
	return *s.profile, nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &profile
	return nil
}

func (s *MemoryStore) GetTravels(_ context.Context, profileID string) ([]domain.TravelEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TravelEntry{}, s.travels[profileID]...), nil
}

func (s *MemoryStore) SaveTravels(_ context.Context, profileID string, travels []domain.TravelEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.travels[profileID] = slices.Clone(travels)
	return nil
}

func (s *MemoryStore) ExportData(_ context.Context) (domain.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return domain.Backup{Travels: []domain.TravelEntry{}}, nil
	}
	profile := *s.profile
	return domain.Backup{
		Profile: &profile,
		Travels: append([]domain.TravelEntry{}, s.travels[profile.ID]...),
	}, nil
}

// ImportData applies the backup under a single lock, so readers never see
// the new profile with the old travels.
func (s *MemoryStore) ImportData(_ context.Context, backup domain.Backup) error {
	if backup.Profile == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	profile := *backup.Profile
	for id := range s.travels {
		if id != profile.ID {
			delete(s.travels, id)
		}
	}
	s.profile = &profile
	if backup.Travels != nil {
		s.travels[profile.ID] = slices.Clone(backup.Travels)
	}
	return nil
}
