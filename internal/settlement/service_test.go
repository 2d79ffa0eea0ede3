package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mksoul/liversettle/internal/domain"
	"github.com/mksoul/liversettle/internal/payout"
	"github.com/mksoul/liversettle/internal/refdata"
)

func threeRoomTables(t *testing.T) *refdata.Tables {
	t.Helper()
	tables := refdata.NewTables()
	require.NoError(t, tables.LoadRoster([][]string{
		{"A", "Akane"},
		{"B", "Botan"},
		{"C", ""},
	}))
	// A and B streamed; C did not.
	require.NoError(t, tables.LoadPresence([][]string{
		{"2025-07-01", "A"},
		{"2025-07-01", "B"},
		{"2025-07-01", "Z-unmanaged"},
	}))
	// Only A has an account link.
	require.NoError(t, tables.LoadAccountLinks([][]string{
		{"A", "url", "genre", "AC1"},
	}))
	tables.LoadRevenue(domain.CategoryBase, [][]string{
		{"600000", ""},
		{"200000", "AC1"},
	})
	tables.LoadRevenue(domain.CategoryPremiumLive, [][]string{
		{"10000", "AC1"},
	})
	tables.LoadRevenue(domain.CategoryTimeCharge, [][]string{
		{"5000", "AC1"},
	})
	return tables
}

func TestReconcileThreeRoomRoundTrip(t *testing.T) {
	svc := NewService(payout.NewCalculator(payout.DefaultRateTable()))
	month := domain.Month{Year: 2025, Month: 7}

	result := svc.Reconcile(month, threeRoomTables(t))
	require.Len(t, result.Records, 3)

	// Roster order is output order.
	assert.Equal(t, "A", result.Records[0].RoomID)
	assert.Equal(t, "B", result.Records[1].RoomID)
	assert.Equal(t, "C", result.Records[2].RoomID)

	// Grand total 600000 -> tier 4 -> bucket 3.
	assert.Equal(t, 4, result.AggregateTier)
	assert.Equal(t, 2, result.StreamedCount)
	assert.Equal(t, 1, result.RevenueJoined)

	// Room A: full joins everywhere.
	a := result.Records[0]
	assert.Equal(t, "Akane", a.Alias)
	assert.True(t, a.Streamed)
	assert.Equal(t, domain.RankA, a.IndividualRank)
	require.Equal(t, domain.PayoutPresent, a.BasePayout.State)
	assert.True(t, a.BasePayout.Value.Equal(decimal.NewFromInt(179280)))
	require.Equal(t, domain.PayoutPresent, a.PremiumLivePayout.State)
	assert.True(t, a.PremiumLivePayout.Value.Equal(decimal.NewFromInt(9720)))
	require.Equal(t, domain.PayoutPresent, a.TimeChargePayout.State)
	assert.True(t, a.TimeChargePayout.Value.Equal(decimal.NewFromInt(5400)))
	assert.Equal(t, domain.Month{Year: 2025, Month: 7}, a.DeliveryMonth)
	assert.Equal(t, domain.Month{Year: 2025, Month: 9}, a.PaymentMonth)

	// Room B: presence match but no revenue join.
	b := result.Records[1]
	assert.True(t, b.Streamed)
	assert.Equal(t, domain.AmountNotAvailable, b.BaseAmount.State)
	assert.Equal(t, domain.RankNA, b.IndividualRank)
	assert.Equal(t, domain.PayoutNotAvailable, b.BasePayout.State)
	assert.Equal(t, domain.AmountBlank, b.PremiumLiveAmount.State)
	assert.Equal(t, domain.PayoutBlank, b.PremiumLivePayout.State)
	assert.Equal(t, domain.PayoutBlank, b.TimeChargePayout.State)

	// Room C: matches nothing, still emitted with sentinels.
	c := result.Records[2]
	assert.Equal(t, "unknown", c.Alias)
	assert.False(t, c.Streamed)
	assert.Equal(t, domain.AmountNotAvailable, c.BaseAmount.State)
	assert.Equal(t, domain.RankNA, c.IndividualRank)
}

func TestReconcileTierSharedAcrossRooms(t *testing.T) {
	svc := NewService(payout.NewCalculator(payout.DefaultRateTable()))
	month := domain.Month{Year: 2025, Month: 7}

	build := func(roomBBase string) *refdata.Tables {
		tables := refdata.NewTables()
		require.NoError(t, tables.LoadRoster([][]string{{"A", "Akane"}, {"B", "Botan"}}))
		require.NoError(t, tables.LoadPresence([][]string{{"x", "A"}}))
		require.NoError(t, tables.LoadAccountLinks([][]string{
			{"A", "", "", "AC1"},
			{"B", "", "", "AC2"},
		}))
		tables.LoadRevenue(domain.CategoryBase, [][]string{
			{"600000", ""},
			{"200000", "AC1"},
			{roomBBase, "AC2"},
		})
		return tables
	}

	// Changing room B's own BASE amount must not change room A's payout:
	// the tier comes from the grand-total row, which is held fixed here.
	first := svc.Reconcile(month, build("1000"))
	second := svc.Reconcile(month, build("950000"))

	assert.Equal(t, first.AggregateTier, second.AggregateTier)
	assert.True(t, first.Records[0].BasePayout.Value.Equal(second.Records[0].BasePayout.Value))

	// B's own rank does follow B's own amount.
	assert.Equal(t, domain.RankE, first.Records[1].IndividualRank)
	assert.Equal(t, domain.RankSSS, second.Records[1].IndividualRank)
}

func TestMalformedAmountWarnsOnceAtLoad(t *testing.T) {
	svc := NewService(payout.NewCalculator(payout.DefaultRateTable()))
	tables := refdata.NewTables()
	require.NoError(t, tables.LoadRoster([][]string{{"A", "Akane"}}))
	require.NoError(t, tables.LoadAccountLinks([][]string{{"A", "", "", "AC1"}}))
	tables.LoadRevenue(domain.CategoryBase, [][]string{
		{"600000", ""},
		{"12,345", "AC1"},
	})

	loaded := len(tables.Warnings)
	require.Equal(t, 1, loaded)

	result := svc.Reconcile(domain.Month{Year: 2025, Month: 7}, tables)
	require.Len(t, result.Records, 1)
	assert.Equal(t, domain.RankError, result.Records[0].IndividualRank)
	assert.Equal(t, domain.PayoutError, result.Records[0].BasePayout.State)

	// The load-time warning is the only one; reconciliation adds none.
	assert.Len(t, tables.Warnings, loaded)
}

func TestReconcileEmptyRoster(t *testing.T) {
	svc := NewService(payout.NewCalculator(payout.DefaultRateTable()))
	tables := refdata.NewTables()
	require.NoError(t, tables.LoadRoster([][]string{{"only", "row"}}))
	tables.Rooms = nil

	result := svc.Reconcile(domain.Month{Year: 2025, Month: 7}, tables)
	assert.Empty(t, result.Records)
	assert.Equal(t, 1, result.AggregateTier)
}
