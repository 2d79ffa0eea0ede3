package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mksoul/liversettle/internal/collector"
	"github.com/mksoul/liversettle/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Collector.RoomID == "" {
		log.Fatal("collector.room_id is required")
	}

	client := collector.NewAPIClient(cfg.Collector.APIBaseURL, 10*time.Second)
	sessionLog := collector.NewSessionLog()

	var uploader collector.Uploader
	if cfg.Collector.FTP.Enabled {
		uploader = collector.NewFTPUploader(
			cfg.Collector.FTP.Addr,
			cfg.Collector.FTP.User,
			cfg.Collector.FTP.Password,
			cfg.Collector.FTP.Dir,
		)
		log.Printf("Snapshot upload target: %s", cfg.Collector.FTP.Addr)
	} else {
		log.Printf("Snapshot upload disabled, writing local files only")
	}

	snapshotter := collector.NewSnapshotter(
		sessionLog, cfg.Collector.RoomID, cfg.Collector.SnapshotDir, uploader,
	)
	if err := snapshotter.Start(cfg.Collector.SnapshotSpec); err != nil {
		log.Fatalf("Failed to start snapshot schedule: %v", err)
	}

	interval := time.Duration(cfg.Collector.PollIntervalSeconds) * time.Second
	poller := collector.NewPoller(client, cfg.Collector.RoomID, interval, sessionLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Metrics on http://localhost:%s/metrics", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, promhttp.Handler()); err != nil {
			log.Printf("WARNING: metrics server failed: %v", err)
		}
	}()

	log.Printf("Live Room Collector for room %s", cfg.Collector.RoomID)
	poller.Run(ctx)

	// Final snapshot on shutdown.
	snapshotter.Stop()
}
