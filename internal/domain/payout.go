package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PayoutState tags the variant cases of a payout estimate. UnmappedRate is a
// configuration gap (no rate for a rank/tier bucket), distinct from the data
// gaps the Amount states describe.
type PayoutState int

const (
	PayoutPresent PayoutState = iota
	PayoutBlank
	PayoutNotAvailable
	PayoutError
	PayoutUnmappedRate
)

// Payout is a rounded payout estimate or one of its sentinel states.
type Payout struct {
	State PayoutState
	Value decimal.Decimal
}

func PresentPayout(v decimal.Decimal) Payout { return Payout{State: PayoutPresent, Value: v} }
func BlankPayout() Payout                    { return Payout{State: PayoutBlank} }
func NotAvailablePayout() Payout             { return Payout{State: PayoutNotAvailable} }
func ErrorPayout() Payout                    { return Payout{State: PayoutError} }
func UnmappedRatePayout() Payout             { return Payout{State: PayoutUnmappedRate} }

func (p Payout) String() string {
	switch p.State {
	case PayoutPresent:
		return p.Value.String()
	case PayoutBlank:
		return ""
	case PayoutNotAvailable:
		return NotAvailableToken
	case PayoutUnmappedRate:
		return UnmappedRateToken
	default:
		return ErrorToken
	}
}

func (p Payout) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Payout) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = DecodePayout(s)
	return nil
}

// DecodePayout is the inverse of String, used when reading records back from
// storage.
func DecodePayout(s string) Payout {
	switch s {
	case "":
		return BlankPayout()
	case NotAvailableToken:
		return NotAvailablePayout()
	case ErrorToken:
		return ErrorPayout()
	case UnmappedRateToken:
		return UnmappedRatePayout()
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return ErrorPayout()
	}
	return PresentPayout(v)
}
