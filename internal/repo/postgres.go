package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so multi-statement writes still nest correctly inside a test tx.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore is the Postgres implementation of Store.
// Entries live in travel_entries with an explicit position column that
// preserves list order.
type PostgresStore struct {
	db db
}

// NewPostgresStore constructs a PostgresStore backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresStore(db db) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

const profileColumns = `id, name, email, theme, home_country, home_city, home_flag_code, created_at, updated_at`

// GetProfile returns the oldest profile row; a deployment only ever has one.
func (r *PostgresStore) GetProfile(ctx context.Context) (domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at LIMIT 1`

	result, err := scanProfile(r.db.QueryRow(ctx, q))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.PostgresStore.GetProfile: %w", err)
	}
	return result, nil
}

// SaveProfile upserts the profile by ID.
func (r *PostgresStore) SaveProfile(ctx context.Context, profile domain.Profile) error {
	if err := saveProfile(ctx, r.db, profile); err != nil {
		return fmt.Errorf("repo.PostgresStore.SaveProfile: %w", err)
	}
	return nil
}

// GetTravels returns the profile's entries ordered by position.
func (r *PostgresStore) GetTravels(ctx context.Context, profileID string) ([]domain.TravelEntry, error) {
	const q = `
		SELECT id, country, city, entry_date, exit_date, is_home, flag_code
		FROM travel_entries
		WHERE profile_id = @profile_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"profile_id": profileID})
	if err != nil {
		return nil, fmt.Errorf("repo.PostgresStore.GetTravels: %w", err)
	}
	defer rows.Close()

	travels := []domain.TravelEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PostgresStore.GetTravels: scan: %w", err)
		}
		travels = append(travels, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PostgresStore.GetTravels: rows: %w", err)
	}
	return travels, nil
}

// SaveTravels deletes and reinserts the profile's entries in one transaction.
func (r *PostgresStore) SaveTravels(ctx context.Context, profileID string, travels []domain.TravelEntry) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		return replaceTravels(ctx, tx, profileID, travels)
	})
	if err != nil {
		return fmt.Errorf("repo.PostgresStore.SaveTravels: %w", err)
	}
	return nil
}

// ExportData reads the profile and its travels.
func (r *PostgresStore) ExportData(ctx context.Context) (domain.Backup, error) {
	backup, err := exportWith(ctx, r)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("repo.PostgresStore.ExportData: %w", err)
	}
	return backup, nil
}

// ImportData replaces every profile with the imported one and writes its
// travels, all in a single transaction. Other profiles' travels go with them
// through the foreign key cascade.
func (r *PostgresStore) ImportData(ctx context.Context, backup domain.Backup) error {
	if backup.Profile == nil {
		return nil
	}
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id <> @id`,
			pgx.NamedArgs{"id": backup.Profile.ID}); err != nil {
			return fmt.Errorf("delete other profiles: %w", err)
		}
		if err := saveProfile(ctx, tx, *backup.Profile); err != nil {
			return err
		}
		if backup.Travels == nil {
			return nil
		}
		return replaceTravels(ctx, tx, backup.Profile.ID, backup.Travels)
	})
	if err != nil {
		return fmt.Errorf("repo.PostgresStore.ImportData: %w", err)
	}
	return nil
}

// inTx runs fn inside a transaction, committing on success and rolling back
// on error.
func (r *PostgresStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func saveProfile(ctx context.Context, q db, p domain.Profile) error {
	const stmt = `
		INSERT INTO profiles (id, name, email, theme, home_country, home_city, home_flag_code, created_at, updated_at)
		VALUES (@id, @name, @email, @theme, @home_country, @home_city, @home_flag_code, @created_at, @updated_at)
		ON CONFLICT (id) DO UPDATE SET
		    name           = EXCLUDED.name,
		    email          = EXCLUDED.email,
		    theme          = EXCLUDED.theme,
		    home_country   = EXCLUDED.home_country,
		    home_city      = EXCLUDED.home_city,
		    home_flag_code = EXCLUDED.home_flag_code,
		    updated_at     = EXCLUDED.updated_at`

	_, err := q.Exec(ctx, stmt, pgx.NamedArgs{
		"id":             p.ID,
		"name":           p.Name,
		"email":          p.Email,
		"theme":          string(p.Theme),
		"home_country":   p.HomeLocation.Country,
		"home_city":      p.HomeLocation.City,
		"home_flag_code": p.HomeLocation.FlagCode,
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	})
	return err
}

func replaceTravels(ctx context.Context, q db, profileID string, travels []domain.TravelEntry) error {
	if _, err := q.Exec(ctx, `DELETE FROM travel_entries WHERE profile_id = @profile_id`,
		pgx.NamedArgs{"profile_id": profileID}); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	const stmt = `
		INSERT INTO travel_entries (profile_id, id, position, country, city, entry_date, exit_date, is_home, flag_code)
		VALUES (@profile_id, @id, @position, @country, @city, @entry_date, @exit_date, @is_home, @flag_code)`

	for i, e := range travels {
		entered, err := e.Entered()
		if err != nil {
			return err
		}
		exited, err := e.Exited()
		if err != nil {
			return err
		}
		_, err = q.Exec(ctx, stmt, pgx.NamedArgs{
			"profile_id": profileID,
			"id":         e.ID,
			"position":   i,
			"country":    e.Country,
			"city":       e.City,
			"entry_date": entered,
			"exit_date":  exited, // nil becomes NULL
			"is_home":    e.IsHome,
			"flag_code":  e.FlagCode,
		})
		if err != nil {
			return fmt.Errorf("insert entry %q: %w", e.ID, err)
		}
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanProfile maps a single database row into a domain.Profile.
func scanProfile(s scanner) (domain.Profile, error) {
	var (
		p     domain.Profile
		theme string
	)
	err := s.Scan(&p.ID, &p.Name, &p.Email, &theme,
		&p.HomeLocation.Country, &p.HomeLocation.City, &p.HomeLocation.FlagCode,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}
	p.Theme = domain.Theme(theme)
	return p, nil
}

// scanEntry maps a single database row into a domain.TravelEntry,
// formatting DATE columns back to YYYY-MM-DD strings.
func scanEntry(s scanner) (domain.TravelEntry, error) {
	var (
		e         domain.TravelEntry
		entryDate pgtype.Date
		exitDate  pgtype.Date
	)
	if err := s.Scan(&e.ID, &e.Country, &e.City, &entryDate, &exitDate, &e.IsHome, &e.FlagCode); err != nil {
		return domain.TravelEntry{}, err
	}
	e.EntryDate = entryDate.Time.Format(domain.DateLayout)
	if exitDate.Valid {
		e.ExitDate = exitDate.Time.Format(domain.DateLayout)
	}
	return e, nil
}
