package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rank is the per-room tier derived from the room's own BASE revenue.
type Rank string

const (
	RankE   Rank = "E"
	RankD   Rank = "D"
	RankC   Rank = "C"
	RankB   Rank = "B"
	RankA   Rank = "A"
	RankS   Rank = "S"
	RankSS  Rank = "SS"
	RankSSS Rank = "SSS"

	// RankNA marks a room whose BASE amount was never produced upstream;
	// RankError marks a BASE amount that failed numeric parsing.
	RankNA    Rank = NotAvailableToken
	RankError Rank = ErrorToken
)

// RevenueCategory names the revenue-distribution sources joined into a
// settlement.
type RevenueCategory string

const (
	CategoryBase        RevenueCategory = "BASE"
	CategoryPremiumLive RevenueCategory = "PREMIUM_LIVE"
	CategoryTimeCharge  RevenueCategory = "TIME_CHARGE"
)

// SettlementRecord is one output row of a reconciliation run. Exactly one is
// produced per managed room per run, in roster order.
type SettlementRecord struct {
	RoomID            string `json:"room_id"`
	Alias             string `json:"alias"`
	Streamed          bool   `json:"streamed"`
	DeliveryMonth     Month  `json:"delivery_month"`
	PaymentMonth      Month  `json:"payment_month"`
	BaseAmount        Amount `json:"base_amount"`
	IndividualRank    Rank   `json:"individual_rank"`
	BasePayout        Payout `json:"base_payout"`
	PremiumLiveAmount Amount `json:"premium_live_amount"`
	PremiumLivePayout Payout `json:"premium_live_payout"`
	TimeChargePayout  Payout `json:"time_charge_payout"`
}

// SettlementRun records one reconciliation invocation.
type SettlementRun struct {
	ID            string          `json:"id"`
	DeliveryMonth Month           `json:"delivery_month"`
	PaymentMonth  Month           `json:"payment_month"`
	SourceHash    string          `json:"source_hash"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	AggregateTier int             `json:"aggregate_tier"`
	RoomCount     int             `json:"room_count"`
	StreamedCount int             `json:"streamed_count"`
	Warnings      []string        `json:"warnings,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RunSummary is the response payload after a run completes.
type RunSummary struct {
	RunID         string   `json:"run_id"`
	DeliveryMonth string   `json:"delivery_month"`
	PaymentMonth  string   `json:"payment_month"`
	AggregateTier int      `json:"aggregate_tier"`
	RoomCount     int      `json:"room_count"`
	StreamedCount int      `json:"streamed_count"`
	RevenueJoined int      `json:"revenue_joined"`
	Warnings      []string `json:"warnings,omitempty"`
}
