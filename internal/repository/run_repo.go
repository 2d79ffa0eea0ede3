package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mksoul/liversettle/internal/domain"
)

// RunRepo persists settlement runs and their records.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// GetRunIDByHash returns the run already stored for identical source bytes,
// or "" when none exists. Used for run idempotency.
func (r *RunRepo) GetRunIDByHash(hash string) (string, error) {
	var id string
	err := r.db.QueryRow(
		"SELECT id FROM settlement_runs WHERE source_hash = ?", hash,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get run by hash: %w", err)
	}
	return id, nil
}

func (r *RunRepo) InsertRun(run *domain.SettlementRun) error {
	_, err := r.db.Exec(
		`INSERT INTO settlement_runs
		(id, delivery_month, payment_month, source_hash, grand_total,
		 aggregate_tier, room_count, streamed_count, warnings, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.DeliveryMonth.Key(), run.PaymentMonth.Key(), run.SourceHash,
		run.GrandTotal.String(), run.AggregateTier, run.RoomCount,
		run.StreamedCount, strings.Join(run.Warnings, "\n"),
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// InsertRecords bulk-inserts a run's records inside one transaction,
// preserving roster order via the position column.
func (r *RunRepo) InsertRecords(runID string, recs []domain.SettlementRecord) (int, error) {
	sqlTx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.Prepare(
		`INSERT INTO settlement_records
		(run_id, position, room_id, alias, streamed, base_amount,
		 individual_rank, base_payout, premium_live_amount,
		 premium_live_payout, time_charge_payout)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := range recs {
		rec := &recs[i]
		if _, err := stmt.Exec(
			runID, i, rec.RoomID, rec.Alias, boolToInt(rec.Streamed),
			rec.BaseAmount.String(), string(rec.IndividualRank),
			rec.BasePayout.String(), rec.PremiumLiveAmount.String(),
			rec.PremiumLivePayout.String(), rec.TimeChargePayout.String(),
		); err != nil {
			return i, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(recs), nil
}

func (r *RunRepo) GetRun(id string) (*domain.SettlementRun, error) {
	row := r.db.QueryRow(
		`SELECT id, delivery_month, payment_month, source_hash, grand_total,
		 aggregate_tier, room_count, streamed_count, warnings, created_at
		 FROM settlement_runs WHERE id = ?`, id,
	)
	return scanRun(row.Scan)
}

// RunFilter narrows and paginates the run list.
type RunFilter struct {
	DeliveryMonth string
	Page          int
	Limit         int
}

func (r *RunRepo) ListRuns(f RunFilter) ([]domain.SettlementRun, int, error) {
	var where string
	var args []any
	if f.DeliveryMonth != "" {
		where = " WHERE delivery_month = ?"
		args = append(args, f.DeliveryMonth)
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM settlement_runs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	query := `SELECT id, delivery_month, payment_month, source_hash, grand_total,
		 aggregate_tier, room_count, streamed_count, warnings, created_at
		 FROM settlement_runs` + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var runs []domain.SettlementRun
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, total, rows.Err()
}

// GetRecords returns a run's records in roster order. The parent run is
// fetched before the records cursor opens: with a single pooled connection,
// an open cursor would block any query issued while it is undrained.
func (r *RunRepo) GetRecords(runID string) ([]domain.SettlementRecord, error) {
	run, err := r.GetRun(runID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT room_id, alias, streamed, base_amount, individual_rank,
		 base_payout, premium_live_amount, premium_live_payout,
		 time_charge_payout
		 FROM settlement_records WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var recs []domain.SettlementRecord
	for rows.Next() {
		var rec domain.SettlementRecord
		var streamed int
		var baseAmount, rank, basePayout, premiumAmount, premiumPayout, timeCharge string
		if err := rows.Scan(
			&rec.RoomID, &rec.Alias, &streamed, &baseAmount, &rank,
			&basePayout, &premiumAmount, &premiumPayout, &timeCharge,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec.Streamed = streamed != 0
		rec.DeliveryMonth = run.DeliveryMonth
		rec.PaymentMonth = run.PaymentMonth
		rec.BaseAmount = domain.DecodeAmount(baseAmount)
		rec.IndividualRank = domain.Rank(rank)
		rec.BasePayout = domain.DecodePayout(basePayout)
		rec.PremiumLiveAmount = domain.DecodeAmount(premiumAmount)
		rec.PremiumLivePayout = domain.DecodePayout(premiumPayout)
		rec.TimeChargePayout = domain.DecodePayout(timeCharge)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DashboardStats holds aggregate run statistics.
type DashboardStats struct {
	TotalRuns     int     `json:"total_runs"`
	TotalRecords  int     `json:"total_records"`
	LatestMonth   string  `json:"latest_month,omitempty"`
	LatestRunAt   string  `json:"latest_run_at,omitempty"`
	StreamedRatio float64 `json:"streamed_ratio"`
}

func (r *RunRepo) GetDashboardStats() (*DashboardStats, error) {
	s := &DashboardStats{}
	var streamed int
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(room_count), 0),
			COALESCE(SUM(streamed_count), 0)
		FROM settlement_runs
	`).Scan(&s.TotalRuns, &s.TotalRecords, &streamed)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	if s.TotalRecords > 0 {
		s.StreamedRatio = float64(streamed) / float64(s.TotalRecords)
	}

	var month, createdAt sql.NullString
	err = r.db.QueryRow(
		"SELECT delivery_month, created_at FROM settlement_runs ORDER BY created_at DESC LIMIT 1",
	).Scan(&month, &createdAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("latest: %w", err)
	}
	if month.Valid {
		s.LatestMonth = month.String
	}
	if createdAt.Valid {
		s.LatestRunAt = createdAt.String
	}
	return s, nil
}

// --- helpers ---

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanRun(scan func(...any) error) (*domain.SettlementRun, error) {
	var run domain.SettlementRun
	var deliveryMonth, paymentMonth, grandTotal, warnings, createdAt string

	err := scan(
		&run.ID, &deliveryMonth, &paymentMonth, &run.SourceHash, &grandTotal,
		&run.AggregateTier, &run.RoomCount, &run.StreamedCount, &warnings,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	run.DeliveryMonth, err = domain.ParseMonth(deliveryMonth)
	if err != nil {
		return nil, fmt.Errorf("delivery month: %w", err)
	}
	run.PaymentMonth, err = domain.ParseMonth(paymentMonth)
	if err != nil {
		return nil, fmt.Errorf("payment month: %w", err)
	}
	run.GrandTotal, err = decimal.NewFromString(grandTotal)
	if err != nil {
		return nil, fmt.Errorf("grand total: %w", err)
	}
	if warnings != "" {
		run.Warnings = strings.Split(warnings, "\n")
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &run, nil
}
