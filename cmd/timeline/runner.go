package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/repo"
	"github.com/pkordes/travel-timeline/internal/service"
	"github.com/pkordes/travel-timeline/internal/timeline"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	openStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// exportRow mirrors the JSON shape of GET /export.
type exportRow struct {
	JourneyID         string `json:"journeyId"`
	JourneyOpen       bool   `json:"journeyOpen"`
	EntryID           string `json:"entryId"`
	Country           string `json:"country"`
	City              string `json:"city"`
	FlagCode          string `json:"flagCode"`
	EntryDate         string `json:"entryDate"`
	ExitDate          string `json:"exitDate,omitempty"`
	IsHome            bool   `json:"isHome"`
	EffectiveExitDate string `json:"effectiveExitDate"`
	DurationDays      int    `json:"durationDays"`
}

// Runner holds the dependencies shared by every command action.
type Runner struct {
	logger *slog.Logger
	output io.Writer
	clock  timeline.Clock
	create func(path string) (io.WriteCloser, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Logger *slog.Logger
	Output io.Writer
	// Clock supplies today when --today is not given.
	Clock timeline.Clock
}

// NewRunner creates a Runner, defaulting to stdout and the system clock.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = timeline.SystemClock{}
	}
	return &Runner{
		logger: opts.Logger,
		output: opts.Output,
		clock:  opts.Clock,
		create: func(path string) (io.WriteCloser, error) { return os.Create(path) },
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range []func(*Runner) *cli.Command{journeysCommand, exitDateCommand, exportCommand} {
		commands = append(commands, fn(r))
	}
	return commands
}

// Journeys prints every journey with its entries.
func (r *Runner) Journeys(ctx context.Context, cmd *cli.Command) error {
	svc, asOf, err := r.load(ctx, cmd)
	if err != nil {
		return err
	}
	views, err := svc.Timeline.Build(ctx, asOf)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(views)
	}
	if len(views) == 0 {
		return r.writePlain("No journeys.\n")
	}
	for _, v := range views {
		if err := r.writeJourney(v); err != nil {
			return err
		}
	}
	return nil
}

// ExitDate prints the effective exit date of the entry named by --id.
func (r *Runner) ExitDate(ctx context.Context, cmd *cli.Command) error {
	svc, asOf, err := r.load(ctx, cmd)
	if err != nil {
		return err
	}
	exit, err := svc.Timeline.ExitDate(ctx, cmd.String("id"), asOf)
	if err != nil {
		return err
	}
	suffix := ""
	if exit.Inferred {
		suffix = " (inferred)"
	}
	return r.writePlain("%s%s\n", exit.EffectiveExitDate, suffix)
}

// Export writes the flat rows as CSV or JSON to --output or stdout.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}

	svc, asOf, err := r.load(ctx, cmd)
	if err != nil {
		return err
	}
	rows, err := svc.Backup.Rows(ctx, asOf)
	if err != nil {
		return err
	}

	write := func(w io.Writer) error { return writeRows(w, format, rows) }
	if path := cmd.String("output"); path != "" {
		err = r.writeFile(path, write)
	} else {
		err = write(r.output)
	}
	if err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	r.logger.Info("export written", "rows", len(rows), "format", format)
	return nil
}

// writeRows encodes rows as CSV or indented JSON.
func writeRows(w io.Writer, format string, rows []domain.ExportRow) error {
	if format == "csv" {
		return domain.WriteCSV(w, rows)
	}
	body := make([]exportRow, len(rows))
	for i, row := range rows {
		body[i] = exportRow(row)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}

// writeFile creates path and runs write against it. A failed Close is
// reported when write itself succeeded.
func (r *Runner) writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := r.create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return write(f)
}

// load reads --file into an in-memory store and returns services over it,
// with the --today override parsed.
func (r *Runner) load(ctx context.Context, cmd *cli.Command) (*service.Services, *time.Time, error) {
	var asOf *time.Time
	if s := cmd.String("today"); s != "" {
		t, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --today %q: want YYYY-MM-DD", s)
		}
		asOf = &t
	}

	path := cmd.String("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	backup, err := decodeFile(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	svc := service.New(repo.NewMemoryStore(), r.clock, r.logger)
	if _, err := svc.Backup.Import(ctx, backup); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return svc, asOf, nil
}

// decodeFile accepts a backup document or a bare entry array.
func decodeFile(data []byte) (domain.Backup, error) {
	var travels []domain.TravelEntry
	if err := json.Unmarshal(data, &travels); err == nil {
		return domain.Backup{Travels: travels}, nil
	}
	var backup domain.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return domain.Backup{}, fmt.Errorf("not a backup document or entry array: %w", err)
	}
	if backup.Travels == nil {
		backup.Travels = []domain.TravelEntry{}
	}
	return backup, nil
}

func (r *Runner) writeJourney(v timeline.JourneyView) error {
	status := dimStyle.Render("closed")
	if v.Open {
		status = openStyle.Render("open")
	}
	if err := r.writePlain("%s  %s\n", titleStyle.Render(v.Title), status); err != nil {
		return err
	}
	if err := r.writePlain("  %s to %s, %d days\n", v.StartDate, v.EndDate, v.TotalDays); err != nil {
		return err
	}
	for _, e := range v.Entries {
		marker := ""
		if e.Inferred {
			marker = "*"
		}
		if e.Entry.IsHome {
			marker += " home"
		}
		place := e.Entry.Country
		if e.Entry.City != "" {
			place += ", " + e.Entry.City
		}
		if err := r.writePlain("    %s  %s to %s%s  %dd\n",
			place, e.Entry.EntryDate, e.EffectiveExitDate, marker, e.DurationDays); err != nil {
			return err
		}
	}
	return r.writePlain("\n")
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
