// Package settlement reconciles the managed roster against one month's KPI
// and revenue-distribution sources, emitting exactly one record per room.
package settlement

import (
	"github.com/mksoul/liversettle/internal/domain"
	"github.com/mksoul/liversettle/internal/payout"
	"github.com/mksoul/liversettle/internal/refdata"
)

// unknownAlias is emitted when a managed room has no alias in the roster.
const unknownAlias = "unknown"

// Service performs the per-room join and payout calculation.
type Service struct {
	calc *payout.Calculator
}

func NewService(calc *payout.Calculator) *Service {
	return &Service{calc: calc}
}

// Result holds the output of one reconciliation pass.
type Result struct {
	Records       []domain.SettlementRecord
	AggregateTier int
	RevenueJoined int
	StreamedCount int
}

// Reconcile iterates the roster in source order and emits one record per
// room. Join misses surface as sentinel values; no room is ever skipped,
// duplicated or reordered, and a single room's bad data never aborts the
// batch. The aggregate tier is computed once from the BASE grand total and
// shared by every room in the run.
func (s *Service) Reconcile(month domain.Month, tables *refdata.Tables) *Result {
	tier := payout.AggregateTier(tables.GrandTotal)
	payMonth := month.PaymentMonth()

	result := &Result{
		Records:       make([]domain.SettlementRecord, 0, len(tables.Rooms)),
		AggregateTier: tier,
	}

	for _, roomID := range tables.Rooms {
		alias, ok := tables.Aliases[roomID]
		if !ok {
			alias = unknownAlias
		}

		streamed := tables.Presence[roomID]
		if streamed {
			result.StreamedCount++
		}

		accountID := tables.Accounts[roomID]
		base := tables.Amount(domain.CategoryBase, accountID, domain.NotAvailableAmount())
		premium := tables.Amount(domain.CategoryPremiumLive, accountID, domain.BlankAmount())
		timeCharge := tables.Amount(domain.CategoryTimeCharge, accountID, domain.BlankAmount())
		if base.State == domain.AmountPresent {
			result.RevenueJoined++
		}

		rank := payout.IndividualRank(base)

		result.Records = append(result.Records, domain.SettlementRecord{
			RoomID:            roomID,
			Alias:             alias,
			Streamed:          streamed,
			DeliveryMonth:     month,
			PaymentMonth:      payMonth,
			BaseAmount:        base,
			IndividualRank:    rank,
			BasePayout:        s.calc.BasePayout(rank, tier, base),
			PremiumLiveAmount: premium,
			PremiumLivePayout: payout.FlatPayout(premium, payout.PremiumLiveFactor),
			TimeChargePayout:  payout.FlatPayout(timeCharge, payout.TimeChargeFactor),
		})
	}

	return result
}
