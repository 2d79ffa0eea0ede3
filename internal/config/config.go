// Package config loads service configuration from an optional YAML file with
// environment-variable overrides for the deployment knobs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sources names the operator CSV endpoints. The KPI URL is month-templated
// with {year} and {month} placeholders.
type Sources struct {
	RosterURL      string `yaml:"roster_url"`
	KPIURLTemplate string `yaml:"kpi_url_template"`
	AccountURL     string `yaml:"account_url"`
	BaseURL        string `yaml:"base_revenue_url"`
	PremiumLiveURL string `yaml:"premium_live_url"`
	TimeChargeURL  string `yaml:"time_charge_url"`

	// Every operator sheet exports with a header row.
	SkipHeader     bool `yaml:"skip_header"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
	Retries        int  `yaml:"retries"`
	BackoffSeconds int  `yaml:"backoff_seconds"`
}

// FTP names the file server the collector uploads snapshots to.
type FTP struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dir      string `yaml:"dir"`
}

// Collector configures the live-room collector daemon.
type Collector struct {
	APIBaseURL          string `yaml:"api_base_url"`
	RoomID              string `yaml:"room_id"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	SnapshotSpec        string `yaml:"snapshot_spec"` // cron spec
	SnapshotDir         string `yaml:"snapshot_dir"`
	FTP                 FTP    `yaml:"ftp"`
}

type Config struct {
	Port      string                    `yaml:"port"`
	DBPath    string                    `yaml:"db_path"`
	Sources   Sources                   `yaml:"sources"`
	Rates     map[string]map[int]string `yaml:"rates,omitempty"`
	Collector Collector                 `yaml:"collector"`
}

// Load builds the config from defaults, then the YAML file named by
// LIVERSETTLE_CONFIG (if any), then PORT/DB_PATH env overrides.
func Load() (*Config, error) {
	cfg := &Config{
		Port:   "8080",
		DBPath: "liversettle.db",
		Sources: Sources{
			RosterURL:      "https://mksoul-pro.com/showroom/file/m-liver-list.csv",
			KPIURLTemplate: "https://mksoul-pro.com/showroom/csv/{year}-{month}_all_all.csv",
			AccountURL:     "https://mksoul-pro.com/showroom/file/m-liver-account.csv",
			BaseURL:        "https://mksoul-pro.com/showroom/file/m-distribution-base.csv",
			PremiumLiveURL: "https://mksoul-pro.com/showroom/file/m-distribution-premium.csv",
			TimeChargeURL:  "https://mksoul-pro.com/showroom/file/m-distribution-timecharge.csv",
			SkipHeader:     true,
			TimeoutSeconds: 30,
			Retries:        2,
			BackoffSeconds: 2,
		},
		Collector: Collector{
			APIBaseURL:          "https://www.showroomlive.com",
			PollIntervalSeconds: 5,
			SnapshotSpec:        "@every 5m",
			SnapshotDir:         "snapshots",
		},
	}

	if path := os.Getenv("LIVERSETTLE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	return cfg, nil
}
