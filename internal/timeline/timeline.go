// Package timeline derives journeys and effective exit dates from a flat list
// of travel entries.
//
// Everything here is a pure function of its inputs plus the injected Clock:
// no I/O, no shared state, safe to call once per render. Callers' slices are
// never reordered or modified.
//
// Ordering contract: entries are sorted ascending by entry date with a stable
// sort, so entries sharing an entry date keep their relative input order.
// Storage backends preserve insertion order for this reason.
package timeline

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/pkordes/travel-timeline/internal/domain"
)

// Resolver computes effective exit dates and journey groupings.
type Resolver struct {
	clock Clock
}

// New returns a Resolver that uses clock for the "today" fallback.
// A nil clock means the system clock.
func New(clock Clock) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Resolver{clock: clock}
}

// Today returns the clock's current date in UTC as YYYY-MM-DD.
func (r *Resolver) Today() string {
	return r.clock.Now().UTC().Format(domain.DateLayout)
}

// Sort returns a chronologically sorted copy of entries.
// Every entry and exit date is validated; the first malformed one is
// returned as a *domain.ParseError.
func Sort(entries []domain.TravelEntry) ([]domain.TravelEntry, error) {
	type keyed struct {
		entry domain.TravelEntry
		at    time.Time
	}

	keys := make([]keyed, len(entries))
	for i, e := range entries {
		at, err := e.Entered()
		if err != nil {
			return nil, err
		}
		if _, err := e.Exited(); err != nil {
			return nil, err
		}
		keys[i] = keyed{entry: e, at: at}
	}

	slices.SortStableFunc(keys, func(a, b keyed) int {
		return a.at.Compare(b.at)
	})

	sorted := make([]domain.TravelEntry, len(keys))
	for i, k := range keys {
		sorted[i] = k.entry
	}
	return sorted, nil
}

// EffectiveExitDate returns the date the traveller left entry's location.
//
// An explicit ExitDate wins regardless of the other entries. Otherwise the
// departure is assumed to be the entry date of the next entry in
// chronological order, or today when entry is the latest one.
//
// entry is located in allEntries by ID; if it is absent a
// *domain.InvariantViolation is returned. If IDs are duplicated the first
// match in chronological order is used. Only entry's own ExitDate counts;
// its copy in allEntries just fixes its position.
func (r *Resolver) EffectiveExitDate(entry domain.TravelEntry, allEntries []domain.TravelEntry) (string, error) {
	if entry.ExitDate != "" {
		if _, err := entry.Exited(); err != nil {
			return "", err
		}
		return entry.ExitDate, nil
	}

	sorted, err := Sort(allEntries)
	if err != nil {
		return "", err
	}

	idx := slices.IndexFunc(sorted, func(e domain.TravelEntry) bool { return e.ID == entry.ID })
	if idx < 0 {
		return "", &domain.InvariantViolation{Op: "timeline.EffectiveExitDate", EntryID: entry.ID}
	}
	// entry has no exit date of its own, whatever its copy in allEntries holds.
	return r.inferredExit(sorted, idx), nil
}

// exitAt resolves the effective exit date of sorted[i].
func (r *Resolver) exitAt(sorted []domain.TravelEntry, i int) string {
	if sorted[i].ExitDate != "" {
		return sorted[i].ExitDate
	}
	return r.inferredExit(sorted, i)
}

// inferredExit is the next entry's entry date, or today for the latest entry.
func (r *Resolver) inferredExit(sorted []domain.TravelEntry, i int) string {
	if i+1 < len(sorted) {
		return sorted[i+1].EntryDate
	}
	return r.Today()
}

// GroupIntoJourneys partitions entries into journeys.
//
// Entries are sorted chronologically and scanned in order; each home entry
// closes the current journey and is its last member. Entries after the last
// home entry form one final open journey. Journey end dates are resolved
// against the full sorted set, so a home entry's end is the start of the next
// journey (or today).
//
// The result is never nil. Journey IDs are positional: "journey-1" is always
// the earliest journey of this particular call.
func (r *Resolver) GroupIntoJourneys(entries []domain.TravelEntry) ([]domain.Journey, error) {
	sorted, err := Sort(entries)
	if err != nil {
		return nil, err
	}
	return r.group(sorted), nil
}

func (r *Resolver) group(sorted []domain.TravelEntry) []domain.Journey {
	journeys := []domain.Journey{}
	start := 0

	closeRun := func(end int, open bool) {
		trips := slices.Clone(sorted[start:end])
		journeys = append(journeys, domain.Journey{
			ID:        fmt.Sprintf("journey-%d", len(journeys)+1),
			Trips:     trips,
			StartDate: trips[0].EntryDate,
			EndDate:   r.exitAt(sorted, end-1),
			Open:      open,
		})
		start = end
	}

	for i, e := range sorted {
		if e.IsHome {
			closeRun(i+1, false)
		}
	}
	if start < len(sorted) {
		closeRun(len(sorted), true)
	}
	return journeys
}

// DurationDays returns the number of days between entry's entry date and its
// effective exit date, rounded up. An exit date before the entry date yields
// a negative count; validation of inverted ranges is the caller's concern.
func (r *Resolver) DurationDays(entry domain.TravelEntry, allEntries []domain.TravelEntry) (int, error) {
	exit, err := r.EffectiveExitDate(entry, allEntries)
	if err != nil {
		return 0, err
	}
	return daysBetween(entry, exit)
}

func daysBetween(entry domain.TravelEntry, exit string) (int, error) {
	from, err := entry.Entered()
	if err != nil {
		return 0, err
	}
	to, err := entry.ParseDate("exitDate", exit)
	if err != nil {
		return 0, err
	}
	return int(math.Ceil(to.Sub(from).Hours() / 24)), nil
}
