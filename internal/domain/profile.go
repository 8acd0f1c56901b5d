package domain

import "time"

// Theme is the UI colour scheme stored with the profile.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Location identifies a place by country, city, and flag code.
type Location struct {
	Country  string `json:"country"`
	City     string `json:"city"`
	FlagCode string `json:"flagCode"`
}

// DefaultHome is assigned to profiles created without a home location.
var DefaultHome = Location{Country: "United Kingdom", City: "London", FlagCode: "gb"}

// Profile is the single user of a deployment. Travels are stored under its ID.
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Theme        Theme     `json:"theme"`
	HomeLocation Location  `json:"homeLocation"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Backup is the full-data export document: the profile plus every entry.
// Profile is nil when nothing has been saved yet.
type Backup struct {
	Profile *Profile      `json:"profile"`
	Travels []TravelEntry `json:"travels"`
}
