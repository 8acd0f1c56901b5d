package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// BackupService handles the flat timeline export and full-data backup and
// restore.
type BackupService struct {
	*state
}

// Rows returns one ExportRow per entry in chronological order, with journey
// and duration fields filled in. asOf pins "today" as in TimelineService.Build.
// Always returns a non-nil slice.
func (s *BackupService) Rows(ctx context.Context, asOf *time.Time) ([]domain.ExportRow, error) {
	views, err := (&TimelineService{state: s.state}).Build(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.Rows: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, j := range views {
		for _, v := range j.Entries {
			rows = append(rows, domain.ExportRow{
				JourneyID:         j.ID,
				JourneyOpen:       j.Open,
				EntryID:           v.Entry.ID,
				Country:           v.Entry.Country,
				City:              v.Entry.City,
				FlagCode:          v.Entry.FlagCode,
				EntryDate:         v.Entry.EntryDate,
				ExitDate:          v.Entry.ExitDate,
				IsHome:            v.Entry.IsHome,
				EffectiveExitDate: v.EffectiveExitDate,
				DurationDays:      v.DurationDays,
			})
		}
	}
	return rows, nil
}

// Export returns the full backup document: profile plus stored entries.
// The default profile is created first if none exists, so the document
// always has one.
func (s *BackupService) Export(ctx context.Context) (domain.Backup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.profile(ctx); err != nil {
		return domain.Backup{}, fmt.Errorf("service.BackupService.Export: %w", err)
	}
	backup, err := s.store.ExportData(ctx)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("service.BackupService.Export: %w", err)
	}
	if backup.Travels == nil {
		backup.Travels = []domain.TravelEntry{}
	}
	s.logger.InfoContext(ctx, "backup exported", "entries", len(backup.Travels))
	return backup, nil
}

// Import restores a backup, replacing the stored entries.
//
// With a profile, the profile is saved as well; missing fields get defaults.
// Without one, the entries are attached to the current profile, which is how
// a bare entry array is imported. A nil Travels slice leaves stored entries
// alone.
//
// Every entry is validated before anything is written. Entries without an ID
// get a UUID; duplicate IDs are a validation error. Returns the number of
// entries imported.
func (s *BackupService) Import(ctx context.Context, backup domain.Backup) (int, error) {
	travels, err := prepareImport(backup.Travels)
	if err != nil {
		return 0, fmt.Errorf("service.BackupService.Import: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var profile domain.Profile
	if backup.Profile != nil {
		if profile, err = s.importedProfile(*backup.Profile); err != nil {
			return 0, fmt.Errorf("service.BackupService.Import: %w", err)
		}
	} else if profile, err = s.profile(ctx); err != nil {
		return 0, fmt.Errorf("service.BackupService.Import: %w", err)
	}

	if err := s.store.ImportData(ctx, domain.Backup{Profile: &profile, Travels: travels}); err != nil {
		return 0, fmt.Errorf("service.BackupService.Import: %w", err)
	}
	s.logger.InfoContext(ctx, "backup imported",
		"profile_id", profile.ID, "with_profile", backup.Profile != nil, "entries", len(travels))
	return len(travels), nil
}

// importedProfile fills defaults into a profile read from a backup file.
func (s *BackupService) importedProfile(p domain.Profile) (domain.Profile, error) {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if p.Theme == "" {
		p.Theme = domain.ThemeLight
	}
	if err := validateTheme(p.Theme); err != nil {
		return domain.Profile{}, err
	}
	if strings.TrimSpace(p.HomeLocation.Country) == "" {
		p.HomeLocation = domain.DefaultHome
	}
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	return p, nil
}

// prepareImport normalizes, identifies and validates every entry.
// Stored order is kept so tie-breaking between same-day entries survives the
// round trip.
func prepareImport(in []domain.TravelEntry) ([]domain.TravelEntry, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]domain.TravelEntry, len(in))
	seen := make(map[string]bool, len(in))
	for i, e := range in {
		e = normalizeEntry(e)
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: duplicate entry id %q", domain.ErrValidation, e.ID)
		}
		seen[e.ID] = true
		if err := validateEntry(e); err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
