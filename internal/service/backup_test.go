package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// ---- Rows ------------------------------------------------------------------

func TestBackupService_Rows(t *testing.T) {
	svc, _ := seeded(
		abroad("2", "France", "2023-02-01"),
		london("1", "2023-01-01"),
		london("3", "2023-02-11"),
		abroad("4", "Japan", "2023-12-20"),
	)

	rows, err := svc.Backup.Rows(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "1", rows[0].EntryID, "rows are chronological")
	assert.Equal(t, "journey-1", rows[0].JourneyID)

	assert.Equal(t, "journey-2", rows[1].JourneyID)
	assert.Equal(t, "", rows[1].ExitDate)
	assert.Equal(t, "2023-02-11", rows[1].EffectiveExitDate)
	assert.Equal(t, 10, rows[1].DurationDays)

	assert.Equal(t, "journey-3", rows[3].JourneyID)
	assert.True(t, rows[3].JourneyOpen)
	assert.Equal(t, 12, rows[3].DurationDays)
}

func TestBackupService_Rows_Empty(t *testing.T) {
	svc, _ := newServices()

	rows, err := svc.Backup.Rows(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

// ---- Export ----------------------------------------------------------------

func TestBackupService_Export(t *testing.T) {
	svc, _ := seeded(london("1", "2023-01-01"))

	got, err := svc.Backup.Export(context.Background())

	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "p-1", got.Profile.ID)
	assert.Len(t, got.Travels, 1)
}

func TestBackupService_Export_CreatesProfile(t *testing.T) {
	svc, _ := newServices()

	got, err := svc.Backup.Export(context.Background())

	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.NotNil(t, got.Travels)
}

// ---- Import ----------------------------------------------------------------

func TestBackupService_Import_WithProfile(t *testing.T) {
	svc, store := newServices()
	profile := domain.Profile{ID: "imported", Name: "Ada", Theme: domain.ThemeDark}

	n, err := svc.Backup.Import(context.Background(), domain.Backup{
		Profile: &profile,
		Travels: []domain.TravelEntry{london("1", "2023-01-01"), abroad("2", "France", "2023-02-01")},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := store.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "imported", stored.ID)
	assert.Equal(t, domain.DefaultHome, stored.HomeLocation, "missing home gets the default")
	assert.Equal(t, testNow, stored.CreatedAt)

	travels, err := store.GetTravels(context.Background(), "imported")
	require.NoError(t, err)
	assert.Len(t, travels, 2)
}

func TestBackupService_Import_BareTravelsUseCurrentProfile(t *testing.T) {
	svc, store := seeded(abroad("old", "Peru", "2020-01-01"))

	n, err := svc.Backup.Import(context.Background(), domain.Backup{
		Travels: []domain.TravelEntry{{Country: "Chile", EntryDate: "2023-01-01"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	travels := storedTravels(store)
	require.Len(t, travels, 1, "import replaces stored travels")
	assert.Equal(t, "Chile", travels[0].Country)
	assert.NotEmpty(t, travels[0].ID, "missing ids are assigned")
}

func TestBackupService_Import_RejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		travels []domain.TravelEntry
		want    error
	}{
		{"inverted range", []domain.TravelEntry{{ID: "1", Country: "Peru", EntryDate: "2023-01-10", ExitDate: "2023-01-01"}}, domain.ErrValidation},
		{"bad date", []domain.TravelEntry{{ID: "1", Country: "Peru", EntryDate: "2023-1-1"}}, domain.ErrParse},
		{"duplicate ids", []domain.TravelEntry{abroad("1", "Peru", "2023-01-01"), abroad("1", "Chile", "2023-02-01")}, domain.ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, store := seeded(abroad("old", "Peru", "2020-01-01"))

			_, err := svc.Backup.Import(context.Background(), domain.Backup{Travels: tc.travels})

			assert.ErrorIs(t, err, tc.want)
			assert.Len(t, storedTravels(store), 1, "stored travels are untouched on failure")
		})
	}
}

func TestBackupService_Import_InvalidTheme(t *testing.T) {
	svc, _ := newServices()
	profile := domain.Profile{ID: "x", Theme: "neon"}

	_, err := svc.Backup.Import(context.Background(), domain.Backup{Profile: &profile})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBackupService_Import_RoundTrip(t *testing.T) {
	src, _ := seeded(
		london("1", "2023-01-01"),
		abroad("2", "France", "2023-02-01"),
		abroad("3", "Spain", "2023-02-01"),
	)
	ctx := context.Background()
	backup, err := src.Backup.Export(ctx)
	require.NoError(t, err)

	dst, store := newServices()
	_, err = dst.Backup.Import(ctx, backup)
	require.NoError(t, err)

	got, err := store.GetTravels(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, backup.Travels, got, "stored order survives the round trip")

	asOf := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	want, err := src.Timeline.Build(ctx, &asOf)
	require.NoError(t, err)
	have, err := dst.Timeline.Build(ctx, &asOf)
	require.NoError(t, err)
	assert.Equal(t, want, have)
}

func TestBackupService_Import_NewProfileIDReplacesCurrent(t *testing.T) {
	svc, _ := seeded(abroad("old", "Peru", "2022-06-01"))
	ctx := context.Background()

	n, err := svc.Backup.Import(ctx, domain.Backup{
		Profile: &domain.Profile{ID: "p-2", Name: "Imported"},
		Travels: []domain.TravelEntry{abroad("a", "Austria", "2023-01-01")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := svc.Profiles.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p-2", p.ID)

	entries, total, err := svc.Entries.List(ctx, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "a", entries[0].ID)
}
