package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// MongoStore is the document-database backend. Profiles live in the users
// collection keyed by profile ID; each travel entry is its own document in
// the travels collection, tagged with its owner and list position.
type MongoStore struct {
	users   *mongo.Collection
	travels *mongo.Collection
}

// userDocument is the users collection schema.
type userDocument struct {
	ID           string           `bson:"_id"`
	Name         string           `bson:"name"`
	Email        string           `bson:"email"`
	Theme        string           `bson:"theme"`
	HomeLocation locationDocument `bson:"homeLocation"`
	CreatedAt    time.Time        `bson:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt"`
}

type locationDocument struct {
	Country  string `bson:"country"`
	City     string `bson:"city"`
	FlagCode string `bson:"flagCode"`
}

// travelDocument is the travels collection schema. Dates are stored as BSON
// dates at UTC midnight.
type travelDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	EntryID   string             `bson:"entryId"`
	Position  int                `bson:"position"`
	Country   string             `bson:"country"`
	City      string             `bson:"city"`
	EntryDate time.Time          `bson:"entryDate"`
	ExitDate  *time.Time         `bson:"exitDate,omitempty"`
	IsHome    bool               `bson:"isHome"`
	FlagCode  string             `bson:"flagCode"`
}

// OpenMongo connects to the server at url and verifies it with a ping.
func OpenMongo(ctx context.Context, url string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}
	return client, nil
}

// NewMongoStore constructs a MongoStore on the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:   db.Collection("users"),
		travels: db.Collection("travels"),
	}
}

var _ Store = (*MongoStore)(nil)

// GetProfile returns the oldest user document.
func (r *MongoStore) GetProfile(ctx context.Context) (domain.Profile, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	var doc userDocument
	err := r.users.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Profile{}, fmt.Errorf("repo.MongoStore.GetProfile: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.MongoStore.GetProfile: %w", err)
	}
	return doc.toProfile(), nil
}

// SaveProfile replaces the user document with the profile's ID, inserting it
// if absent.
func (r *MongoStore) SaveProfile(ctx context.Context, profile domain.Profile) error {
	doc := newUserDocument(profile)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.users.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("repo.MongoStore.SaveProfile: %w", err)
	}
	return nil
}

// GetTravels returns the profile's travel documents ordered by position.
func (r *MongoStore) GetTravels(ctx context.Context, profileID string) ([]domain.TravelEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := r.travels.Find(ctx, bson.M{"userId": profileID}, opts)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoStore.GetTravels: %w", err)
	}

	var docs []travelDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repo.MongoStore.GetTravels: decode: %w", err)
	}

	travels := make([]domain.TravelEntry, len(docs))
	for i, d := range docs {
		travels[i] = d.toEntry()
	}
	return travels, nil
}

// SaveTravels clears the profile's travel documents and inserts the new list.
// The two steps are not atomic: transactions need a replica set, which a
// single-user deployment usually lacks.
func (r *MongoStore) SaveTravels(ctx context.Context, profileID string, travels []domain.TravelEntry) error {
	if err := r.replaceTravels(ctx, profileID, travels); err != nil {
		return fmt.Errorf("repo.MongoStore.SaveTravels: %w", err)
	}
	return nil
}

func (r *MongoStore) ExportData(ctx context.Context) (domain.Backup, error) {
	backup, err := exportWith(ctx, r)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("repo.MongoStore.ExportData: %w", err)
	}
	return backup, nil
}

// ImportData removes every other user and their travels, then saves the
// imported profile and replaces its travels. Like SaveTravels it is not
// atomic.
func (r *MongoStore) ImportData(ctx context.Context, backup domain.Backup) error {
	if backup.Profile == nil {
		return nil
	}
	others := bson.M{"$ne": backup.Profile.ID}
	if _, err := r.users.DeleteMany(ctx, bson.M{"_id": others}); err != nil {
		return fmt.Errorf("repo.MongoStore.ImportData: delete other users: %w", err)
	}
	if _, err := r.travels.DeleteMany(ctx, bson.M{"userId": others}); err != nil {
		return fmt.Errorf("repo.MongoStore.ImportData: delete other travels: %w", err)
	}
	if err := r.SaveProfile(ctx, *backup.Profile); err != nil {
		return fmt.Errorf("repo.MongoStore.ImportData: %w", err)
	}
	if backup.Travels == nil {
		return nil
	}
	if err := r.replaceTravels(ctx, backup.Profile.ID, backup.Travels); err != nil {
		return fmt.Errorf("repo.MongoStore.ImportData: %w", err)
	}
	return nil
}

func (r *MongoStore) replaceTravels(ctx context.Context, profileID string, travels []domain.TravelEntry) error {
	docs := make([]interface{}, 0, len(travels))
	for i, e := range travels {
		doc, err := newTravelDocument(profileID, i, e)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	if _, err := r.travels.DeleteMany(ctx, bson.M{"userId": profileID}); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := r.travels.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func newUserDocument(p domain.Profile) userDocument {
	return userDocument{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Theme: string(p.Theme),
		HomeLocation: locationDocument{
			Country:  p.HomeLocation.Country,
			City:     p.HomeLocation.City,
			FlagCode: p.HomeLocation.FlagCode,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d userDocument) toProfile() domain.Profile {
	return domain.Profile{
		ID:    d.ID,
		Name:  d.Name,
		Email: d.Email,
		Theme: domain.Theme(d.Theme),
		HomeLocation: domain.Location{
			Country:  d.HomeLocation.Country,
			City:     d.HomeLocation.City,
			FlagCode: d.HomeLocation.FlagCode,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func newTravelDocument(profileID string, position int, e domain.TravelEntry) (travelDocument, error) {
	entered, err := e.Entered()
	if err != nil {
		return travelDocument{}, err
	}
	exited, err := e.Exited()
	if err != nil {
		return travelDocument{}, err
	}
	return travelDocument{
		UserID:    profileID,
		EntryID:   e.ID,
		Position:  position,
		Country:   e.Country,
		City:      e.City,
		EntryDate: entered,
		ExitDate:  exited,
		IsHome:    e.IsHome,
		FlagCode:  e.FlagCode,
	}, nil
}

func (d travelDocument) toEntry() domain.TravelEntry {
	e := domain.TravelEntry{
		ID:        d.EntryID,
		Country:   d.Country,
		City:      d.City,
		EntryDate: d.EntryDate.UTC().Format(domain.DateLayout),
		IsHome:    d.IsHome,
		FlagCode:  d.FlagCode,
	}
	if d.ExitDate != nil {
		e.ExitDate = d.ExitDate.UTC().Format(domain.DateLayout)
	}
	return e
}
