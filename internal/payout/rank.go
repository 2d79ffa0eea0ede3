package payout

import (
	"github.com/shopspring/decimal"

	"github.com/mksoul/liversettle/internal/domain"
)

// Individual rank thresholds, closed lower bounds, checked descending.
var rankThresholds = []struct {
	min  decimal.Decimal
	rank domain.Rank
}{
	{decimal.NewFromInt(900001), domain.RankSSS},
	{decimal.NewFromInt(450001), domain.RankSS},
	{decimal.NewFromInt(270001), domain.RankS},
	{decimal.NewFromInt(135001), domain.RankA},
	{decimal.NewFromInt(90001), domain.RankB},
	{decimal.NewFromInt(45001), domain.RankC},
	{decimal.NewFromInt(22501), domain.RankD},
}

// IndividualRank classifies a room's own BASE distribution amount. Sentinel
// amounts map to the matching sentinel rank; negative amounts floor to E.
func IndividualRank(a domain.Amount) domain.Rank {
	switch a.State {
	case domain.AmountNotAvailable:
		return domain.RankNA
	case domain.AmountBlank, domain.AmountMalformed:
		return domain.RankError
	}
	for _, t := range rankThresholds {
		if a.Value.GreaterThanOrEqual(t.min) {
			return t.rank
		}
	}
	return domain.RankE
}

const (
	tierBandWidth = 175000
	tierMax       = 11
)

var (
	tierBand = decimal.NewFromInt(tierBandWidth)
	tierCap  = decimal.NewFromInt(tierBandWidth * 10)
)

// AggregateTier classifies the roster-wide BASE grand total into tiers 1-11.
// Bands are 175,000 wide with ties resolved downward: exactly 175,000 is
// tier 1, and anything above 1,750,000 is the open-ended tier 11.
func AggregateTier(total decimal.Decimal) int {
	if total.GreaterThan(tierCap) {
		return tierMax
	}
	tier := int(total.Div(tierBand).Ceil().IntPart())
	if tier < 1 {
		return 1
	}
	return tier
}

// tierBucket collapses the 11 aggregate tiers into the 6 rate-table column
// keys: (1,2)->1, (3,4)->3, (5,6)->5, (7,8)->7, (9,10)->9, 11->11.
func tierBucket(tier int) (int, bool) {
	switch {
	case tier == tierMax:
		return tierMax, true
	case tier >= 1 && tier <= 10:
		return (tier-1)/2*2 + 1, true
	default:
		return 0, false
	}
}
