package main

import (
	"log"
	"net/http"
	"time"

	"github.com/mksoul/liversettle/internal/api"
	"github.com/mksoul/liversettle/internal/config"
	"github.com/mksoul/liversettle/internal/fetch"
	"github.com/mksoul/liversettle/internal/payout"
	"github.com/mksoul/liversettle/internal/repository"
	"github.com/mksoul/liversettle/internal/settlement"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Initializing database at %s", cfg.DBPath)
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	rates, err := payout.ParseRateOverrides(cfg.Rates)
	if err != nil {
		log.Fatalf("Failed to load rate table: %v", err)
	}

	runRepo := repository.NewRunRepo(db)
	client := fetch.NewClient(
		time.Duration(cfg.Sources.TimeoutSeconds)*time.Second,
		cfg.Sources.Retries,
		time.Duration(cfg.Sources.BackoffSeconds)*time.Second,
	)
	svc := settlement.NewService(payout.NewCalculator(rates))
	runner := settlement.NewRunner(cfg.Sources, client, svc, runRepo)

	router := api.NewRouter(runner, runRepo)

	log.Printf("Liver Monthly Settlement Service")
	log.Printf("Listening on http://localhost:%s", cfg.Port)
	log.Printf("API base: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  GET    /api/v1/months")
	log.Printf("  POST   /api/v1/settlements/run")
	log.Printf("  GET    /api/v1/settlements/runs")
	log.Printf("  GET    /api/v1/settlements/runs/{id}")
	log.Printf("  GET    /api/v1/settlements/runs/{id}/export.csv")
	log.Printf("  GET    /api/v1/settlements/runs/{id}/export.xlsx")
	log.Printf("  GET    /api/v1/dashboard")
	log.Printf("  GET    /metrics")

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
