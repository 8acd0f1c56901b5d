package timeline

import "github.com/pkordes/travel-timeline/internal/domain"

// EntryView is one timeline row: the stored entry plus its derived dates.
type EntryView struct {
	Entry             domain.TravelEntry `json:"entry"`
	EffectiveExitDate string             `json:"effectiveExitDate"`
	// Inferred is true when EffectiveExitDate did not come from the entry itself.
	Inferred     bool `json:"inferred"`
	DurationDays int  `json:"durationDays"`
}

// JourneyView is a journey with its heading and per-entry rows.
type JourneyView struct {
	domain.Journey
	Title     string      `json:"title"`
	TotalDays int         `json:"totalDays"`
	Entries   []EntryView `json:"entries"`
}

// Views groups entries into journeys and resolves every entry's exit date and
// duration in a single pass over the sorted set.
// TotalDays sums every member's duration, home entries included.
func (r *Resolver) Views(entries []domain.TravelEntry) ([]JourneyView, error) {
	sorted, err := Sort(entries)
	if err != nil {
		return nil, err
	}

	journeys := r.group(sorted)
	views := make([]JourneyView, 0, len(journeys))

	i := 0
	for _, j := range journeys {
		v := JourneyView{Journey: j, Title: j.Title(), Entries: make([]EntryView, 0, len(j.Trips))}
		for _, trip := range j.Trips {
			exit := r.exitAt(sorted, i)
			days, err := daysBetween(trip, exit)
			if err != nil {
				return nil, err
			}
			v.Entries = append(v.Entries, EntryView{
				Entry:             trip,
				EffectiveExitDate: exit,
				Inferred:          trip.ExitDate == "",
				DurationDays:      days,
			})
			v.TotalDays += days
			i++
		}
		views = append(views, v)
	}
	return views, nil
}
