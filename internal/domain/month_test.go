package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-07")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2025, Month: 7}, m)

	for _, bad := range []string{"", "2025", "2025-13", "2025-00", "july-2025", "2025/07"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestMonthKeyAndDisplay(t *testing.T) {
	m := Month{Year: 2025, Month: 7}
	assert.Equal(t, "2025-07", m.Key())
	assert.Equal(t, "2025年07月分", m.Display())
}

func TestPaymentMonthCarriesYear(t *testing.T) {
	tests := []struct {
		delivery Month
		payment  Month
	}{
		{Month{2025, 7}, Month{2025, 9}},
		{Month{2025, 11}, Month{2026, 1}},
		{Month{2025, 12}, Month{2026, 2}},
		{Month{2024, 1}, Month{2024, 3}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.payment, tt.delivery.PaymentMonth(), "delivery %s", tt.delivery.Key())
	}
}

func TestAddMonthsBackward(t *testing.T) {
	assert.Equal(t, Month{2024, 12}, Month{2025, 1}.AddMonths(-1))
	assert.Equal(t, Month{2023, 11}, Month{2025, 1}.AddMonths(-14))
}

func TestRecentDeliveryMonths(t *testing.T) {
	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	months := RecentDeliveryMonths(now, 12)
	require.Len(t, months, 12)

	// Latest option is last month, crossing the year boundary.
	assert.Equal(t, Month{2024, 12}, months[0])
	assert.Equal(t, Month{2024, 11}, months[1])
	assert.Equal(t, Month{2024, 1}, months[11])
}
