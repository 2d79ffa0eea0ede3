package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mksoul/liversettle/internal/repository"
	"github.com/mksoul/liversettle/internal/settlement"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(runner *settlement.Runner, runRepo *repository.RunRepo) http.Handler {
	h := &Handlers{
		runner:  runner,
		runRepo: runRepo,
		now:     time.Now,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/months", h.ListMonths)

		r.Post("/settlements/run", h.RunSettlement)
		r.Get("/settlements/runs", h.ListRuns)
		r.Get("/settlements/runs/{id}", h.GetRun)
		r.Get("/settlements/runs/{id}/export.csv", h.ExportCSV)
		r.Get("/settlements/runs/{id}/export.xlsx", h.ExportXLSX)

		r.Get("/dashboard", h.GetDashboard)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
