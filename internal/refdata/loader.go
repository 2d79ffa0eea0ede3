// Package refdata normalizes the operator-maintained reference CSVs into the
// lookup tables the settlement reconciler joins across. All identity fields
// are compared as trimmed strings: room and account IDs routinely carry
// leading zeros that numeric comparison would destroy.
package refdata

import (
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mksoul/liversettle/internal/domain"
)

// StructuralError reports a source that is missing required columns. It is
// fatal for the reference lists and degrades to an empty mapping for the
// supplemental revenue sources.
type StructuralError struct {
	Source   string
	Required int
	Got      int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: expected at least %d columns, got %d", e.Source, e.Required, e.Got)
}

// Tables holds every lookup table one reconciliation run reads. All maps are
// built once here and read-only afterwards.
type Tables struct {
	// Rooms preserves roster source order, which is also the output order.
	Rooms    []string
	Aliases  map[string]string
	Accounts map[string]string // room_id -> account_id
	Presence map[string]bool
	Revenue  map[domain.RevenueCategory]map[string]domain.Amount

	// GrandTotal is the distinguished first data row of the BASE source:
	// the roster-wide monthly revenue the aggregate tier derives from.
	GrandTotal decimal.Decimal

	Warnings []string
}

func NewTables() *Tables {
	return &Tables{
		Aliases:  make(map[string]string),
		Accounts: make(map[string]string),
		Presence: make(map[string]bool),
		Revenue:  make(map[domain.RevenueCategory]map[string]domain.Amount),
	}
}

func (t *Tables) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[refdata] WARNING: %s", msg)
	t.Warnings = append(t.Warnings, msg)
}

// LoadRoster reads the managed-room list: col0 = room_id, col1 = alias.
// Room IDs must be unique within a load; duplicates keep the first row.
// A roster without an alias column degrades to an empty alias mapping.
func (t *Tables) LoadRoster(rows [][]string) error {
	if len(rows) == 0 {
		return &StructuralError{Source: "roster", Required: 1, Got: 0}
	}
	if len(rows[0]) < 1 {
		return &StructuralError{Source: "roster", Required: 1, Got: len(rows[0])}
	}
	if len(rows[0]) < 2 {
		t.warnf("roster has no alias column, aliases degrade to empty")
	}

	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		if len(row) < 1 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if id == "" {
			continue
		}
		if seen[id] {
			t.warnf("roster row %d: duplicate room %s, keeping first", i+1, id)
			continue
		}
		seen[id] = true
		t.Rooms = append(t.Rooms, id)
		if len(row) >= 2 {
			if alias := strings.TrimSpace(row[1]); alias != "" {
				t.Aliases[id] = alias
			}
		}
	}
	return nil
}

// LoadPresence reads the monthly KPI source: col1 holds the room_id of every
// room that streamed during the month.
func (t *Tables) LoadPresence(rows [][]string) error {
	if len(rows) > 0 && len(rows[0]) < 2 {
		return &StructuralError{Source: "presence", Required: 2, Got: len(rows[0])}
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		if id := strings.TrimSpace(row[1]); id != "" {
			t.Presence[id] = true
		}
	}
	return nil
}

// LoadAccountLinks reads the account-to-room reference: col0 = room_id,
// col3 = account_id. Duplicate room rows keep the first link.
func (t *Tables) LoadAccountLinks(rows [][]string) error {
	if len(rows) > 0 && len(rows[0]) < 4 {
		return &StructuralError{Source: "account links", Required: 4, Got: len(rows[0])}
	}
	for i, row := range rows {
		if len(row) < 4 {
			continue
		}
		roomID := strings.TrimSpace(row[0])
		accountID := strings.TrimSpace(row[3])
		if roomID == "" || accountID == "" {
			continue
		}
		if _, dup := t.Accounts[roomID]; dup {
			t.warnf("account links row %d: duplicate room %s, keeping first", i+1, roomID)
			continue
		}
		t.Accounts[roomID] = accountID
	}
	return nil
}

// LoadRevenue reads a revenue-distribution source: col0 = amount, col1 =
// account_id. For the BASE category the first data row is the roster-wide
// grand total, not a per-account entry; if it fails to parse, the total
// stays zero and the run carries a warning instead of failing. A source with
// too few columns degrades to an empty mapping for that category.
func (t *Tables) LoadRevenue(category domain.RevenueCategory, rows [][]string) {
	if len(rows) > 0 && len(rows[0]) < 2 {
		t.warnf("%s revenue source: expected at least 2 columns, got %d, degrading to empty",
			category, len(rows[0]))
		t.Revenue[category] = map[string]domain.Amount{}
		return
	}

	if category == domain.CategoryBase && len(rows) > 0 {
		raw := strings.TrimSpace(rows[0][0])
		total, err := decimal.NewFromString(raw)
		if err != nil {
			t.warnf("BASE grand total %q failed to parse, using zero", raw)
			total = decimal.Zero
		}
		t.GrandTotal = total
		rows = rows[1:]
	}

	amounts := make(map[string]domain.Amount, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		accountID := strings.TrimSpace(row[1])
		if accountID == "" {
			continue
		}
		amount := domain.ParseAmount(row[0])
		if amount.State == domain.AmountMalformed {
			t.warnf("%s revenue row %d: malformed amount %q for account %s",
				category, i+1, row[0], accountID)
		}
		if _, dup := amounts[accountID]; dup {
			t.warnf("%s revenue row %d: duplicate account %s, keeping first", category, i+1, accountID)
			continue
		}
		amounts[accountID] = amount
	}
	t.Revenue[category] = amounts
}

// Amount returns the category amount joined via account_id, or the supplied
// default when the join misses.
func (t *Tables) Amount(category domain.RevenueCategory, accountID string, miss domain.Amount) domain.Amount {
	if accountID == "" {
		return miss
	}
	amounts, ok := t.Revenue[category]
	if !ok {
		return miss
	}
	a, ok := amounts[accountID]
	if !ok {
		return miss
	}
	return a
}
