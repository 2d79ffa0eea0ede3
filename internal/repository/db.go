package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// A single connection avoids SQLITE_BUSY on writes and keeps in-memory
	// databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settlement_runs (
			id TEXT PRIMARY KEY,
			delivery_month TEXT NOT NULL,
			payment_month TEXT NOT NULL,
			source_hash TEXT UNIQUE NOT NULL,
			grand_total TEXT NOT NULL,
			aggregate_tier INTEGER NOT NULL,
			room_count INTEGER NOT NULL,
			streamed_count INTEGER NOT NULL,
			warnings TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_settlement_runs_month ON settlement_runs(delivery_month)`,

		`CREATE TABLE IF NOT EXISTS settlement_records (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			room_id TEXT NOT NULL,
			alias TEXT NOT NULL,
			streamed INTEGER NOT NULL,
			base_amount TEXT NOT NULL,
			individual_rank TEXT NOT NULL,
			base_payout TEXT NOT NULL,
			premium_live_amount TEXT NOT NULL,
			premium_live_payout TEXT NOT NULL,
			time_charge_payout TEXT NOT NULL,
			PRIMARY KEY (run_id, position),
			FOREIGN KEY (run_id) REFERENCES settlement_runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_settlement_records_room ON settlement_records(room_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
