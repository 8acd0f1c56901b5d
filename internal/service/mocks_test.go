package service_test

import (
	"context"
	"time"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/repo"
	"github.com/pkordes/travel-timeline/internal/service"
	"github.com/pkordes/travel-timeline/internal/timeline"
)

// mockStore is a hand-written test double for repo.Store.
// Each method is a function field; set only the ones your test needs.
// Most tests use repo.MemoryStore instead and reach for this only to inject
// storage failures.
type mockStore struct {
	getProfile  func(ctx context.Context) (domain.Profile, error)
	saveProfile func(ctx context.Context, p domain.Profile) error
	getTravels  func(ctx context.Context, profileID string) ([]domain.TravelEntry, error)
	saveTravels func(ctx context.Context, profileID string, travels []domain.TravelEntry) error
	exportData  func(ctx context.Context) (domain.Backup, error)
	importData  func(ctx context.Context, b domain.Backup) error
}

func (m *mockStore) GetProfile(ctx context.Context) (domain.Profile, error) {
	return m.getProfile(ctx)
}
func (m *mockStore) SaveProfile(ctx context.Context, p domain.Profile) error {
	return m.saveProfile(ctx, p)
}
func (m *mockStore) GetTravels(ctx context.Context, profileID string) ([]domain.TravelEntry, error) {
	return m.getTravels(ctx, profileID)
}
func (m *mockStore) SaveTravels(ctx context.Context, profileID string, travels []domain.TravelEntry) error {
	return m.saveTravels(ctx, profileID, travels)
}
func (m *mockStore) ExportData(ctx context.Context) (domain.Backup, error) {
	return m.exportData(ctx)
}
func (m *mockStore) ImportData(ctx context.Context, b domain.Backup) error {
	return m.importData(ctx, b)
}

// compile-time check: mockStore must satisfy repo.Store.
var _ repo.Store = (*mockStore)(nil)

// ---- helpers ---------------------------------------------------------------

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// newServices returns services over a fresh MemoryStore with the clock pinned
// to testNow.
func newServices() (*service.Services, *repo.MemoryStore) {
	store := repo.NewMemoryStore()
	return service.New(store, timeline.FixedClock(testNow), nil), store
}

// seeded returns services whose store already holds the profile "p-1" and
// the given entries.
func seeded(travels ...domain.TravelEntry) (*service.Services, *repo.MemoryStore) {
	svc, store := newServices()
	ctx := context.Background()
	_ = store.SaveProfile(ctx, domain.Profile{
		ID:           "p-1",
		Theme:        domain.ThemeLight,
		HomeLocation: domain.DefaultHome,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	})
	_ = store.SaveTravels(ctx, "p-1", travels)
	return svc, store
}

func london(id, date string) domain.TravelEntry {
	return domain.TravelEntry{ID: id, Country: "United Kingdom", City: "London", EntryDate: date, IsHome: true, FlagCode: "gb"}
}

func abroad(id, country, date string) domain.TravelEntry {
	return domain.TravelEntry{ID: id, Country: country, City: country + " City", EntryDate: date}
}

func storedTravels(store *repo.MemoryStore) []domain.TravelEntry {
	travels, _ := store.GetTravels(context.Background(), "p-1")
	return travels
}
