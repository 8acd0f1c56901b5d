// Package handler implements the HTTP handlers for the Travel Timeline API.
// All handlers are methods on Server, which Routes mounts on a chi router.
// Methods are split into resource files (entry.go, journey.go, etc.) but all
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-timeline/internal/domain"
	"github.com/pkordes/travel-timeline/internal/metrics"
	"github.com/pkordes/travel-timeline/internal/service"
	"github.com/pkordes/travel-timeline/internal/timeline"
)

// ProfileServicer defines the profile operations the handlers depend on.
// Defining the interfaces here, in the consumer package, lets handler tests
// inject mocks without touching storage or the service layer.
type ProfileServicer interface {
	Get(ctx context.Context) (domain.Profile, error)
	Update(ctx context.Context, p domain.Profile) (domain.Profile, error)
	SetHome(ctx context.Context, home domain.Location) (domain.Profile, error)
}

// EntryServicer defines the travel entry CRUD operations.
type EntryServicer interface {
	Create(ctx context.Context, e domain.TravelEntry) (domain.TravelEntry, error)
	GetByID(ctx context.Context, id string) (domain.TravelEntry, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.TravelEntry, int, error)
	Update(ctx context.Context, e domain.TravelEntry) (domain.TravelEntry, error)
	Delete(ctx context.Context, id string) error
}

// TimelineServicer defines the journey derivation operations.
type TimelineServicer interface {
	Build(ctx context.Context, asOf *time.Time) ([]timeline.JourneyView, error)
	ExitDate(ctx context.Context, id string, asOf *time.Time) (service.ExitDate, error)
}

// BackupServicer defines the export and import operations.
type BackupServicer interface {
	Rows(ctx context.Context, asOf *time.Time) ([]domain.ExportRow, error)
	Export(ctx context.Context) (domain.Backup, error)
	Import(ctx context.Context, backup domain.Backup) (int, error)
}

// Server holds the dependencies of every endpoint.
type Server struct {
	profiles ProfileServicer
	entries  EntryServicer
	timeline TimelineServicer
	backup   BackupServicer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// m may be nil; logger defaults to slog.Default().
func NewServer(profiles ProfileServicer, entries EntryServicer, tl TimelineServicer, backup BackupServicer, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		profiles: profiles,
		entries:  entries,
		timeline: tl,
		backup:   backup,
		metrics:  m,
		logger:   logger,
	}
}

// NewFromServices wires a Server over the service bundle built by service.New.
func NewFromServices(svc *service.Services, m *metrics.Metrics, logger *slog.Logger) *Server {
	return NewServer(svc.Profiles, svc.Entries, svc.Timeline, svc.Backup, m, logger)
}

// Routes returns a router serving every API endpoint.
// Cross-cutting middleware (request IDs, logging, CORS) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorBody(w, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorBody(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed on "+r.URL.Path)
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/profile", func(r chi.Router) {
		r.Get("/", s.GetProfile)
		r.Put("/", s.UpdateProfile)
		r.Put("/home", s.SetHome)
	})

	r.Route("/entries", func(r chi.Router) {
		r.Get("/", s.ListEntries)
		r.Post("/", s.CreateEntry)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetEntry)
			r.Put("/", s.UpdateEntry)
			r.Delete("/", s.DeleteEntry)
			r.Get("/exit-date", s.GetExitDate)
		})
	})

	r.Get("/journeys", s.ListJourneys)
	r.Get("/export", s.GetExport)
	r.Post("/import", s.PostImport)
	return r
}
