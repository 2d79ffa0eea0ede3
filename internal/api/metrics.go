package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liversettle_settlement_runs_total",
		Help: "Completed settlement reconciliation runs",
	})
	runErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liversettle_settlement_run_errors_total",
		Help: "Failed settlement reconciliation runs",
	})
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "liversettle_settlement_run_duration_seconds",
		Help:    "Wall time of a settlement run including source fetches",
		Buckets: prometheus.DefBuckets,
	})
)
