package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/repo"
)

// runStoreContract exercises the behaviour every Store backend must share.
// newStore must return an empty store isolated from other tests.
func runStoreContract(t *testing.T, newStore func(t *testing.T) repo.Store) {
	t.Helper()

	t.Run("GetProfile_Empty", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetProfile(context.Background())

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SaveProfile_RoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		p := profileFixture("p-1")

		require.NoError(t, s.SaveProfile(ctx, p))
		got, err := s.GetProfile(ctx)

		require.NoError(t, err)
		assertProfile(t, p, got)
	})

	t.Run("SaveProfile_Upserts", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		p := profileFixture("p-1")
		require.NoError(t, s.SaveProfile(ctx, p))

		p.Name = "Renamed"
		p.Theme = domain.ThemeDark
		p.HomeLocation = domain.Location{Country: "France", City: "Paris", FlagCode: "fr"}
		require.NoError(t, s.SaveProfile(ctx, p))

		got, err := s.GetProfile(ctx)
		require.NoError(t, err)
		assertProfile(t, p, got)
	})

	t.Run("GetTravels_UnknownProfile", func(t *testing.T) {
		s := newStore(t)

		got, err := s.GetTravels(context.Background(), "nobody")

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("SaveTravels_PreservesOrder", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		p := profileFixture("p-1")
		require.NoError(t, s.SaveProfile(ctx, p))

		// Deliberately unsorted, with a shared entry date.
		travels := []domain.TravelEntry{
			{ID: "b", Country: "Japan", City: "Tokyo", EntryDate: "2023-03-01", FlagCode: "jp"},
			{ID: "a", Country: "United Kingdom", City: "London", EntryDate: "2023-01-01", IsHome: true, FlagCode: "gb"},
			{ID: "c", Country: "Japan", City: "Kyoto", EntryDate: "2023-03-01", ExitDate: "2023-03-09", FlagCode: "jp"},
		}
		require.NoError(t, s.SaveTravels(ctx, p.ID, travels))

		got, err := s.GetTravels(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, travels, got)
	})

	t.Run("SaveTravels_Replaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		p := profileFixture("p-1")
		require.NoError(t, s.SaveProfile(ctx, p))
		require.NoError(t, s.SaveTravels(ctx, p.ID, travelsFixture()))

		replacement := []domain.TravelEntry{
			{ID: "z", Country: "Peru", City: "Lima", EntryDate: "2024-05-05", FlagCode: "pe"},
		}
		require.NoError(t, s.SaveTravels(ctx, p.ID, replacement))

		got, err := s.GetTravels(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, replacement, got)
	})

	t.Run("SaveTravels_Empty", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		p := profileFixture("p-1")
		require.NoError(t, s.SaveProfile(ctx, p))
		require.NoError(t, s.SaveTravels(ctx, p.ID, travelsFixture()))

		require.NoError(t, s.SaveTravels(ctx, p.ID, []domain.TravelEntry{}))

		got, err := s.GetTravels(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ExportData_Empty", func(t *testing.T) {
		s := newStore(t)

		got, err := s.ExportData(context.Background())

		require.NoError(t, err)
		assert.Nil(t, got.Profile)
		assert.Empty(t, got.Travels)
	})

	t.Run("ExportData_ProfileAndTravels", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		p := profileFixture("p-1")
		require.NoError(t, s.SaveProfile(ctx, p))
		require.NoError(t, s.SaveTravels(ctx, p.ID, travelsFixture()))

		got, err := s.ExportData(ctx)

		require.NoError(t, err)
		require.NotNil(t, got.Profile)
		assertProfile(t, p, *got.Profile)
		assert.Equal(t, travelsFixture(), got.Travels)
	})

	t.Run("ImportData_WithoutProfileIsIgnored", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		err := s.ImportData(ctx, domain.Backup{Travels: travelsFixture()})
		require.NoError(t, err)

		_, err = s.GetProfile(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ImportData_ReplacesEverything", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		old := profileFixture("p-1")
		require.NoError(t, s.SaveProfile(ctx, old))
		require.NoError(t, s.SaveTravels(ctx, old.ID, travelsFixture()))

		imported := old
		imported.Name = "Imported"
		travels := travelsFixture()[:1]
		require.NoError(t, s.ImportData(ctx, domain.Backup{Profile: &imported, Travels: travels}))

		got, err := s.ExportData(ctx)
		require.NoError(t, err)
		require.NotNil(t, got.Profile)
		assertProfile(t, imported, *got.Profile)
		assert.Equal(t, travels, got.Travels)
	})

	t.Run("ImportData_DifferentProfileIDBecomesCurrent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		old := profileFixture("p-1")
		require.NoError(t, s.SaveProfile(ctx, old))
		require.NoError(t, s.SaveTravels(ctx, old.ID, travelsFixture()))

		imported := profileFixture("p-2")
		imported.CreatedAt = old.CreatedAt.Add(24 * time.Hour)
		imported.UpdatedAt = imported.CreatedAt
		travels := travelsFixture()[1:]
		require.NoError(t, s.ImportData(ctx, domain.Backup{Profile: &imported, Travels: travels}))

		got, err := s.GetProfile(ctx)
		require.NoError(t, err)
		assertProfile(t, imported, got)

		current, err := s.GetTravels(ctx, imported.ID)
		require.NoError(t, err)
		assert.Equal(t, travels, current)

		stale, err := s.GetTravels(ctx, old.ID)
		require.NoError(t, err)
		assert.Empty(t, stale, "replaced profile's travels must be gone")

		backup, err := s.ExportData(ctx)
		require.NoError(t, err)
		require.NotNil(t, backup.Profile)
		assert.Equal(t, imported.ID, backup.Profile.ID)
		assert.Equal(t, travels, backup.Travels)
	})

	t.Run("ImportData_NilTravelsKeepsExisting", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		p := profileFixture("p-1")
		require.NoError(t, s.SaveProfile(ctx, p))
		require.NoError(t, s.SaveTravels(ctx, p.ID, travelsFixture()))

		p.Email = "new@example.com"
		require.NoError(t, s.ImportData(ctx, domain.Backup{Profile: &p}))

		got, err := s.GetTravels(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, travelsFixture(), got)
	})
}

// profileFixture returns a profile with second-precision UTC timestamps, which
// every backend stores without loss.
func profileFixture(id string) domain.Profile {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return domain.Profile{
		ID:           id,
		Name:         "Traveller",
		Email:        "traveller@example.com",
		Theme:        domain.ThemeLight,
		HomeLocation: domain.DefaultHome,
		CreatedAt:    created,
		UpdatedAt:    created.Add(time.Hour),
	}
}

func travelsFixture() []domain.TravelEntry {
	return []domain.TravelEntry{
		{ID: "1", Country: "United Kingdom", City: "London", EntryDate: "2023-01-01", IsHome: true, FlagCode: "gb"},
		{ID: "2", Country: "France", City: "Paris", EntryDate: "2023-02-10", ExitDate: "2023-02-14", FlagCode: "fr"},
		{ID: "3", Country: "Spain", City: "Madrid", EntryDate: "2023-02-14", FlagCode: "es"},
	}
}

// assertProfile compares profiles field by field, since drivers hand back
// timestamps in differing locations.
func assertProfile(t *testing.T, want, got domain.Profile) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.Theme, got.Theme)
	assert.Equal(t, want.HomeLocation, got.HomeLocation)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "CreatedAt: want %v, got %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "UpdatedAt: want %v, got %v", want.UpdatedAt, got.UpdatedAt)
}
