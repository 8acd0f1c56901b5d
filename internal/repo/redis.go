package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// RedisStore is a key-value backend. The profile and each profile's travel
// list are stored as JSON strings, one key each, using the same key names
// the browser app used for local storage:
//
//	<prefix>_user_profile
//	<prefix>_travels:<profileID>
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis parses a redis:// URL, connects, and pings the server.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewRedisStore constructs a RedisStore. prefix namespaces every key; pass
// "travel_timeline" for the browser app's key names.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

var _ Store = (*RedisStore)(nil)

func (r *RedisStore) profileKey() string { return r.prefix + "_user_profile" }

func (r *RedisStore) travelsKey(profileID string) string {
	return r.prefix + "_travels:" + profileID
}

func (r *RedisStore) GetProfile(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	if err := r.getJSON(ctx, r.profileKey(), &p); err != nil {
		return domain.Profile{}, fmt.Errorf("repo.RedisStore.GetProfile: %w", err)
	}
	return p, nil
}

func (r *RedisStore) SaveProfile(ctx context.Context, profile domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("repo.RedisStore.SaveProfile: %w", err)
	}
	if err := r.client.Set(ctx, r.profileKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("repo.RedisStore.SaveProfile: %w", err)
	}
	return nil
}

func (r *RedisStore) GetTravels(ctx context.Context, profileID string) ([]domain.TravelEntry, error) {
	travels := []domain.TravelEntry{}
	err := r.getJSON(ctx, r.travelsKey(profileID), &travels)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.TravelEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo.RedisStore.GetTravels: %w", err)
	}
	return travels, nil
}

func (r *RedisStore) SaveTravels(ctx context.Context, profileID string, travels []domain.TravelEntry) error {
	data, err := marshalTravels(travels)
	if err != nil {
		return fmt.Errorf("repo.RedisStore.SaveTravels: %w", err)
	}
	if err := r.client.Set(ctx, r.travelsKey(profileID), data, 0).Err(); err != nil {
		return fmt.Errorf("repo.RedisStore.SaveTravels: %w", err)
	}
	return nil
}

func (r *RedisStore) ExportData(ctx context.Context) (domain.Backup, error) {
	backup, err := exportWith(ctx, r)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("repo.RedisStore.ExportData: %w", err)
	}
	return backup, nil
}

// ImportData writes both keys in a MULTI/EXEC transaction. When the imported
// profile replaces one with a different ID, the old travels key is deleted
// in the same transaction.
func (r *RedisStore) ImportData(ctx context.Context, backup domain.Backup) error {
	if backup.Profile == nil {
		return nil
	}
	profile, err := json.Marshal(backup.Profile)
	if err != nil {
		return fmt.Errorf("repo.RedisStore.ImportData: %w", err)
	}
	var travels []byte
	if backup.Travels != nil {
		if travels, err = marshalTravels(backup.Travels); err != nil {
			return fmt.Errorf("repo.RedisStore.ImportData: %w", err)
		}
	}

	var previous domain.Profile
	switch err := r.getJSON(ctx, r.profileKey(), &previous); {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return fmt.Errorf("repo.RedisStore.ImportData: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous.ID != "" && previous.ID != backup.Profile.ID {
			pipe.Del(ctx, r.travelsKey(previous.ID))
		}
		pipe.Set(ctx, r.profileKey(), profile, 0)
		if travels != nil {
			pipe.Set(ctx, r.travelsKey(backup.Profile.ID), travels, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.RedisStore.ImportData: %w", err)
	}
	return nil
}

// getJSON decodes the JSON value at key into v.
// A missing key is reported as domain.ErrNotFound.
func (r *RedisStore) getJSON(ctx context.Context, key string, v any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// marshalTravels encodes travels, writing an empty list as [] rather than null.
func marshalTravels(travels []domain.TravelEntry) ([]byte, error) {
	if travels == nil {
		travels = []domain.TravelEntry{}
	}
	return json.Marshal(travels)
}
