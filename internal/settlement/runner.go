package settlement

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mksoul/liversettle/internal/config"
	"github.com/mksoul/liversettle/internal/domain"
	"github.com/mksoul/liversettle/internal/fetch"
	"github.com/mksoul/liversettle/internal/refdata"
	"github.com/mksoul/liversettle/internal/repository"
)

// Runner fetches the month's sources, runs the reconciliation and persists
// the result. The reconciliation itself (Service) stays pure; everything
// with a network or database in it lives here.
type Runner struct {
	sources config.Sources
	client  *fetch.Client
	svc     *Service
	repo    *repository.RunRepo
}

func NewRunner(sources config.Sources, client *fetch.Client, svc *Service, repo *repository.RunRepo) *Runner {
	return &Runner{sources: sources, client: client, svc: svc, repo: repo}
}

// Run reconciles one delivery month end to end. Identical source bytes for
// the same month resolve to the already-stored run.
func (r *Runner) Run(ctx context.Context, month domain.Month) (*domain.SettlementRun, []domain.SettlementRecord, error) {
	hasher := sha256.New()
	hasher.Write([]byte(month.Key()))

	fetchRows := func(url string) ([][]string, error) {
		rows, raw, err := r.client.GetCSV(ctx, url, r.sources.SkipHeader)
		if err != nil {
			return nil, err
		}
		hasher.Write(raw)
		return rows, nil
	}

	rosterRows, err := fetchRows(r.sources.RosterURL)
	if err != nil {
		return nil, nil, fmt.Errorf("roster: %w", err)
	}
	kpiRows, err := fetchRows(fetch.MonthURL(r.sources.KPIURLTemplate, month))
	if err != nil {
		return nil, nil, fmt.Errorf("kpi %s: %w", month.Key(), err)
	}
	accountRows, err := fetchRows(r.sources.AccountURL)
	if err != nil {
		return nil, nil, fmt.Errorf("account links: %w", err)
	}

	tables := refdata.NewTables()
	if err := tables.LoadRoster(rosterRows); err != nil {
		return nil, nil, fmt.Errorf("load roster: %w", err)
	}
	if err := tables.LoadPresence(kpiRows); err != nil {
		return nil, nil, fmt.Errorf("load presence: %w", err)
	}
	if err := tables.LoadAccountLinks(accountRows); err != nil {
		return nil, nil, fmt.Errorf("load account links: %w", err)
	}

	// Revenue sources degrade to empty mappings; a fetch failure is the
	// same condition as a structurally unusable file.
	r.loadRevenue(ctx, tables, domain.CategoryBase, r.sources.BaseURL, hasher.Write)
	r.loadRevenue(ctx, tables, domain.CategoryPremiumLive, r.sources.PremiumLiveURL, hasher.Write)
	r.loadRevenue(ctx, tables, domain.CategoryTimeCharge, r.sources.TimeChargeURL, hasher.Write)

	hash := fmt.Sprintf("%x", hasher.Sum(nil))
	if existingID, err := r.repo.GetRunIDByHash(hash); err != nil {
		return nil, nil, err
	} else if existingID != "" {
		log.Printf("[settlement] identical sources already reconciled as run %s", existingID)
		run, err := r.repo.GetRun(existingID)
		if err != nil {
			return nil, nil, err
		}
		recs, err := r.repo.GetRecords(existingID)
		if err != nil {
			return nil, nil, err
		}
		return run, recs, nil
	}

	result := r.svc.Reconcile(month, tables)

	run := &domain.SettlementRun{
		ID:            fmt.Sprintf("RUN-%s-%s", month.Key(), uuid.NewString()[:8]),
		DeliveryMonth: month,
		PaymentMonth:  month.PaymentMonth(),
		SourceHash:    hash,
		GrandTotal:    tables.GrandTotal,
		AggregateTier: result.AggregateTier,
		RoomCount:     len(result.Records),
		StreamedCount: result.StreamedCount,
		Warnings:      tables.Warnings,
		CreatedAt:     time.Now(),
	}

	if err := r.repo.InsertRun(run); err != nil {
		return nil, nil, err
	}
	if _, err := r.repo.InsertRecords(run.ID, result.Records); err != nil {
		return nil, nil, err
	}

	log.Printf("[settlement] run %s: %d rooms, %d streamed, tier %d, %d warnings",
		run.ID, run.RoomCount, run.StreamedCount, run.AggregateTier, len(run.Warnings))

	return run, result.Records, nil
}

func (r *Runner) loadRevenue(ctx context.Context, tables *refdata.Tables, category domain.RevenueCategory, url string, hash func([]byte) (int, error)) {
	rows, raw, err := r.client.GetCSV(ctx, url, r.sources.SkipHeader)
	if err != nil {
		log.Printf("[settlement] WARNING: %s revenue source unavailable: %v", category, err)
		tables.Warnings = append(tables.Warnings,
			fmt.Sprintf("%s revenue source unavailable, degrading to empty", category))
		tables.LoadRevenue(category, nil)
		return
	}
	hash(raw)
	tables.LoadRevenue(category, rows)
}
