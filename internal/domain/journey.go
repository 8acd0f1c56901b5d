package domain

import "strings"

// Journey is a run of entries ending at a return home, derived on demand by
// the timeline package. It is never persisted.
//
// ID is positional ("journey-1", "journey-2", ...) and regenerated on every
// grouping, so it must not be used as a stable identifier across requests.
type Journey struct {
	ID        string        `json:"id"`
	Trips     []TravelEntry `json:"trips"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`

	// Open is true for the trailing journey that has no closing home entry.
	Open bool `json:"open"`
}

// Countries returns the country of each trip in order, repeats included.
func (j Journey) Countries() []string {
	out := make([]string, len(j.Trips))
	for i, t := range j.Trips {
		out[i] = t.Country
	}
	return out
}

// Title is the timeline heading: "Journey to X" for a single trip,
// "Journey through X, Y, Z" otherwise.
func (j Journey) Title() string {
	if len(j.Trips) == 1 {
		return "Journey to " + j.Trips[0].Country
	}
	return "Journey through " + strings.Join(j.Countries(), ", ")
}
