package payout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mksoul/liversettle/internal/domain"
)

// RateTable maps individual rank x tier bucket to the BASE payout rate.
type RateTable map[domain.Rank]map[int]decimal.Decimal

// DefaultRateTable returns the built-in platform rate schedule. Operators can
// override individual cells from the config file; a missing cell surfaces as
// RATE_UNDEFINED rather than a fault.
func DefaultRateTable() RateTable {
	rows := map[domain.Rank][6]string{
		domain.RankE:   {"0.500", "0.510", "0.520", "0.530", "0.540", "0.550"},
		domain.RankD:   {"0.560", "0.570", "0.580", "0.590", "0.600", "0.610"},
		domain.RankC:   {"0.620", "0.630", "0.640", "0.650", "0.660", "0.670"},
		domain.RankB:   {"0.680", "0.690", "0.700", "0.710", "0.720", "0.730"},
		domain.RankA:   {"0.820", "0.830", "0.840", "0.850", "0.860", "0.870"},
		domain.RankS:   {"0.840", "0.850", "0.860", "0.870", "0.880", "0.890"},
		domain.RankSS:  {"0.860", "0.870", "0.880", "0.890", "0.900", "0.910"},
		domain.RankSSS: {"0.880", "0.890", "0.900", "0.910", "0.920", "0.930"},
	}
	buckets := [6]int{1, 3, 5, 7, 9, 11}

	table := make(RateTable, len(rows))
	for rank, rates := range rows {
		cols := make(map[int]decimal.Decimal, len(buckets))
		for i, bucket := range buckets {
			cols[bucket] = decimal.RequireFromString(rates[i])
		}
		table[rank] = cols
	}
	return table
}

// ParseRateOverrides applies config-file rate cells on top of the default
// table. Keys must be known ranks and bucket columns.
func ParseRateOverrides(overrides map[string]map[int]string) (RateTable, error) {
	table := DefaultRateTable()
	for rankStr, cols := range overrides {
		rank := domain.Rank(rankStr)
		if _, ok := table[rank]; !ok {
			return nil, fmt.Errorf("unknown rank %q in rate overrides", rankStr)
		}
		for bucket, rateStr := range cols {
			if _, ok := table[rank][bucket]; !ok {
				return nil, fmt.Errorf("unknown tier bucket %d for rank %q in rate overrides", bucket, rankStr)
			}
			rate, err := decimal.NewFromString(rateStr)
			if err != nil {
				return nil, fmt.Errorf("rate for %s/%d: %w", rankStr, bucket, err)
			}
			table[rank][bucket] = rate
		}
	}
	return table, nil
}
