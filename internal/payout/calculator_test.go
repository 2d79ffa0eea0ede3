package payout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mksoul/liversettle/internal/domain"
)

func TestBasePayoutPinnedExample(t *testing.T) {
	// rank A, tier 4 (bucket 3, rate 0.830), amount 200000:
	// round(200000 * 1.08 * 0.830 / 1.10 * 1.10) = 179280
	calc := NewCalculator(DefaultRateTable())
	p := calc.BasePayout(domain.RankA, 4, amountOf(200000))
	require.Equal(t, domain.PayoutPresent, p.State)
	assert.True(t, p.Value.Equal(decimal.NewFromInt(179280)), "got %s", p.Value)
}

func TestBasePayoutIdempotent(t *testing.T) {
	calc := NewCalculator(DefaultRateTable())
	first := calc.BasePayout(domain.RankS, 7, amountOf(300000))
	second := calc.BasePayout(domain.RankS, 7, amountOf(300000))
	assert.Equal(t, first.State, second.State)
	assert.True(t, first.Value.Equal(second.Value))
}

func TestBasePayoutNeverPanicsOnAnyInput(t *testing.T) {
	calc := NewCalculator(DefaultRateTable())
	inputs := []string{"", "#N/A", "abc", "12,345", "∞", "NaN", "1e999", "--3", "0x10"}
	ranksAndTiers := []struct {
		rank domain.Rank
		tier int
	}{
		{domain.RankA, 4}, {domain.Rank("X"), 3}, {domain.RankSSS, -7}, {domain.RankNA, 99},
	}
	for _, in := range inputs {
		for _, rt := range ranksAndTiers {
			assert.NotPanics(t, func() {
				calc.BasePayout(rt.rank, rt.tier, domain.ParseAmount(in))
			}, "input %q rank %s tier %d", in, rt.rank, rt.tier)
		}
	}
}

func TestBasePayoutSentinels(t *testing.T) {
	calc := NewCalculator(DefaultRateTable())

	// Not-available amount or rank propagates as not-available.
	assert.Equal(t, domain.PayoutNotAvailable,
		calc.BasePayout(domain.RankA, 4, domain.NotAvailableAmount()).State)
	assert.Equal(t, domain.PayoutNotAvailable,
		calc.BasePayout(domain.RankNA, 4, amountOf(100)).State)

	// Malformed amount or error rank is the error sentinel.
	assert.Equal(t, domain.PayoutError,
		calc.BasePayout(domain.RankA, 4, domain.MalformedAmount()).State)
	assert.Equal(t, domain.PayoutError,
		calc.BasePayout(domain.RankError, 4, amountOf(100)).State)

	// Unknown rank or unmapped tier is a distinct configuration-gap sentinel.
	assert.Equal(t, domain.PayoutUnmappedRate,
		calc.BasePayout(domain.Rank("X"), 4, amountOf(100)).State)
	assert.Equal(t, domain.PayoutUnmappedRate,
		calc.BasePayout(domain.RankA, 0, amountOf(100)).State)
	assert.Equal(t, domain.PayoutUnmappedRate,
		calc.BasePayout(domain.RankA, 12, amountOf(100)).State)
}

func TestFlatPayoutPremiumLive(t *testing.T) {
	// 10000 * 1.08 * 0.90 / 1.10 * 1.10 = 9720
	p := FlatPayout(amountOf(10000), PremiumLiveFactor)
	require.Equal(t, domain.PayoutPresent, p.State)
	assert.True(t, p.Value.Equal(decimal.NewFromInt(9720)), "got %s", p.Value)
}

func TestFlatPayoutTimeCharge(t *testing.T) {
	// 5000 * 1.08 * 1.00 / 1.10 * 1.10 = 5400
	p := FlatPayout(amountOf(5000), TimeChargeFactor)
	require.Equal(t, domain.PayoutPresent, p.State)
	assert.True(t, p.Value.Equal(decimal.NewFromInt(5400)), "got %s", p.Value)
}

func TestFlatPayoutBlankStaysBlank(t *testing.T) {
	// A blank supplemental amount yields blank output: not an error and not
	// not-available.
	p := FlatPayout(domain.ParseAmount(""), PremiumLiveFactor)
	assert.Equal(t, domain.PayoutBlank, p.State)
	assert.Equal(t, "", p.String())
}

func TestFlatPayoutSentinels(t *testing.T) {
	assert.Equal(t, domain.PayoutNotAvailable,
		FlatPayout(domain.ParseAmount("#N/A"), PremiumLiveFactor).State)
	assert.Equal(t, domain.PayoutError,
		FlatPayout(domain.ParseAmount("abc"), TimeChargeFactor).State)
}

func TestDefaultRateTablePinnedCell(t *testing.T) {
	table := DefaultRateTable()
	rate, ok := table[domain.RankA][3]
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.830")))
}

func TestParseRateOverrides(t *testing.T) {
	table, err := ParseRateOverrides(map[string]map[int]string{
		"A": {3: "0.999"},
	})
	require.NoError(t, err)
	assert.True(t, table[domain.RankA][3].Equal(decimal.RequireFromString("0.999")))
	// Untouched cells keep their defaults.
	assert.True(t, table[domain.RankE][1].Equal(decimal.RequireFromString("0.500")))

	_, err = ParseRateOverrides(map[string]map[int]string{"Z": {1: "0.5"}})
	assert.Error(t, err)

	_, err = ParseRateOverrides(map[string]map[int]string{"A": {2: "0.5"}})
	assert.Error(t, err)

	_, err = ParseRateOverrides(map[string]map[int]string{"A": {3: "zzz"}})
	assert.Error(t, err)
}
