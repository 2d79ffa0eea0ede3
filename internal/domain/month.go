package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month identifies one delivery or payment month.
type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParseMonth parses the "YYYY-MM" form used by the API and the KPI URLs.
func ParseMonth(s string) (Month, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("invalid month %q: month out of range", s)
	}
	return Month{Year: year, Month: month}, nil
}

// Key returns the machine form, e.g. "2025-07".
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Display returns the operator-facing label, e.g. "2025年07月分". Spreadsheet
// tools leave the suffixed form alone instead of coercing it into a date,
// which is required for the exported CSVs.
func (m Month) Display() string {
	return fmt.Sprintf("%04d年%02d月分", m.Year, m.Month)
}

// AddMonths shifts the month by n, carrying across year boundaries.
func (m Month) AddMonths(n int) Month {
	total := m.Year*12 + (m.Month - 1) + n
	return Month{Year: total / 12, Month: total%12 + 1}
}

// PaymentMonth returns the month the payout for this delivery month is
// issued: delivery + 2 calendar months.
func (m Month) PaymentMonth() Month {
	return m.AddMonths(2)
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// RecentDeliveryMonths lists the n most recent selectable delivery months,
// latest first. The latest delivery month is the calendar month before now:
// KPI data for the current month is never complete.
func RecentDeliveryMonths(now time.Time, n int) []Month {
	m := Month{Year: now.Year(), Month: int(now.Month())}.AddMonths(-1)
	months := make([]Month, 0, n)
	for i := 0; i < n; i++ {
		months = append(months, m)
		m = m.AddMonths(-1)
	}
	return months
}
