package domain

import (
	"encoding/csv"
	"io"
	"strconv"
)

// ExportRow is a single row in the flat timeline export.
// It is a denormalized view: one row per entry in chronological order, with
// the derived journey and duration fields alongside the stored ones.
type ExportRow struct {
	// Journey fields, repeated for every entry in the journey.
	JourneyID   string
	JourneyOpen bool

	// Entry fields as stored.
	EntryID   string
	Country   string
	City      string
	FlagCode  string
	EntryDate string
	ExitDate  string // empty when inferred
	IsHome    bool

	// Derived fields.
	EffectiveExitDate string
	DurationDays      int
}

// CSVHeader is the first line of every CSV export.
var CSVHeader = []string{
	"journey_id", "journey_open", "entry_id", "country", "city", "flag_code",
	"entry_date", "exit_date", "effective_exit_date", "duration_days", "is_home",
}

// CSVRecord returns the row's fields in CSVHeader order.
func (r ExportRow) CSVRecord() []string {
	return []string{
		r.JourneyID,
		strconv.FormatBool(r.JourneyOpen),
		r.EntryID,
		r.Country,
		r.City,
		r.FlagCode,
		r.EntryDate,
		r.ExitDate,
		r.EffectiveExitDate,
		strconv.Itoa(r.DurationDays),
		strconv.FormatBool(r.IsHome),
	}
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.CSVRecord()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
