// Package domain contains the core data types for the Travel Timeline application.
// This package imports only the standard library and is imported by every other
// internal package (timeline, repo, service, handler).
package domain

import "time"

// DateLayout is the calendar-date format used for every date string in the
// domain: entry and exit dates, journey bounds, and the "today" fallback.
const DateLayout = "2006-01-02"

// TravelEntry is a single recorded stay: arriving in a city on EntryDate and
// leaving on ExitDate. An empty ExitDate means the departure is inferred from
// the next entry (or today, for the latest entry).
//
// JSON field names match the export format of the browser app, so its backup
// files import unchanged.
type TravelEntry struct {
	ID        string `json:"id"`
	Country   string `json:"country"`
	City      string `json:"city"`
	EntryDate string `json:"entryDate"`
	ExitDate  string `json:"exitDate,omitempty"`
	IsHome    bool   `json:"isHome,omitempty"`
	FlagCode  string `json:"flagCode"`
}

// ParseDate parses a YYYY-MM-DD string as a UTC midnight time.
// field names the entry field being parsed and is used in the returned *ParseError.
func (e TravelEntry) ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{EntryID: e.ID, Field: field, Value: value, Err: err}
	}
	return t, nil
}

// Entered returns EntryDate parsed as a time.
func (e TravelEntry) Entered() (time.Time, error) {
	return e.ParseDate("entryDate", e.EntryDate)
}

// Exited returns ExitDate parsed as a time, or nil when no exit date is set.
func (e TravelEntry) Exited() (*time.Time, error) {
	if e.ExitDate == "" {
		return nil, nil
	}
	t, err := e.ParseDate("exitDate", e.ExitDate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
