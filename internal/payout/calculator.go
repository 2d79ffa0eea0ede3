// Package payout implements the tiered rank and payout-estimate formulas for
// monthly settlement. Every function returns sentinel values for bad input;
// nothing in this package panics or aborts a batch.
package payout

import (
	"github.com/shopspring/decimal"

	"github.com/mksoul/liversettle/internal/domain"
)

var (
	consumptionTax = decimal.RequireFromString("1.08")
	feeDivisor     = decimal.RequireFromString("1.10")
	feeMultiplier  = decimal.RequireFromString("1.10")

	// Flat payout factors for the supplemental categories. The trailing
	// /1.10*1.10 cancels out today; it is kept as written because the
	// platform's published formula carries it and the divisor may diverge
	// from the multiplier in a future rate revision.
	PremiumLiveFactor = consumptionTax.Mul(decimal.RequireFromString("0.90")).Div(feeDivisor).Mul(feeMultiplier)
	TimeChargeFactor  = consumptionTax.Mul(decimal.RequireFromString("1.00")).Div(feeDivisor).Mul(feeMultiplier)
)

// Calculator computes payout estimates against a fixed rate table.
type Calculator struct {
	rates RateTable
}

func NewCalculator(rates RateTable) *Calculator {
	return &Calculator{rates: rates}
}

// BasePayout estimates the BASE payout for a room:
// round(amount * 1.08 * rate / 1.10 * 1.10), rounded half-up to a whole yen.
// A not-available amount or rank yields not-available; malformed input yields
// the error sentinel; a missing rate cell yields the unmapped-rate sentinel.
func (c *Calculator) BasePayout(rank domain.Rank, tier int, amount domain.Amount) domain.Payout {
	if amount.State == domain.AmountNotAvailable || rank == domain.RankNA {
		return domain.NotAvailablePayout()
	}
	if amount.State != domain.AmountPresent || rank == domain.RankError {
		return domain.ErrorPayout()
	}

	bucket, ok := tierBucket(tier)
	if !ok {
		return domain.UnmappedRatePayout()
	}
	rate, ok := c.rates[rank][bucket]
	if !ok {
		return domain.UnmappedRatePayout()
	}

	v := amount.Value.
		Mul(consumptionTax).
		Mul(rate).
		Div(feeDivisor).
		Mul(feeMultiplier)
	return domain.PresentPayout(v.Round(0))
}

// FlatPayout estimates a supplemental-category payout: round(amount * factor).
// A blank amount yields a blank payout, not an error and not not-available.
func FlatPayout(amount domain.Amount, factor decimal.Decimal) domain.Payout {
	switch amount.State {
	case domain.AmountBlank:
		return domain.BlankPayout()
	case domain.AmountNotAvailable:
		return domain.NotAvailablePayout()
	case domain.AmountMalformed:
		return domain.ErrorPayout()
	}
	return domain.PresentPayout(amount.Value.Mul(factor).Round(0))
}
