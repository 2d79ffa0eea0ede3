package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel tokens used in the operator CSVs and in exports.
const (
	NotAvailableToken = "#N/A"
	ErrorToken        = "ERROR"
	UnmappedRateToken = "RATE_UNDEFINED"
)

// AmountState tags the variant cases of a monetary Amount. Blank, not
// available and malformed are distinct conditions and must never collapse
// into each other or into zero.
type AmountState int

const (
	AmountPresent AmountState = iota
	AmountBlank
	AmountNotAvailable
	AmountMalformed
)

// Amount is a monetary figure or one of its sentinel states.
type Amount struct {
	State AmountState
	Value decimal.Decimal
}

func PresentAmount(v decimal.Decimal) Amount { return Amount{State: AmountPresent, Value: v} }
func BlankAmount() Amount                    { return Amount{State: AmountBlank} }
func NotAvailableAmount() Amount             { return Amount{State: AmountNotAvailable} }
func MalformedAmount() Amount                { return Amount{State: AmountMalformed} }

// ParseAmount classifies a raw CSV field. Empty input is blank, the "#N/A"
// token is not-available, anything that fails decimal parsing is malformed.
// It never returns an error: malformed input is a value, not a fault.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return BlankAmount()
	}
	if strings.EqualFold(s, NotAvailableToken) || strings.EqualFold(s, "N/A") {
		return NotAvailableAmount()
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return MalformedAmount()
	}
	return PresentAmount(v)
}

// String renders the export form: the decimal for present values, "" for
// blank, "#N/A" for not-available, "ERROR" for malformed.
func (a Amount) String() string {
	switch a.State {
	case AmountPresent:
		return a.Value.String()
	case AmountBlank:
		return ""
	case AmountNotAvailable:
		return NotAvailableToken
	default:
		return ErrorToken
	}
}

// MarshalJSON renders the same form the CSV export uses.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = DecodeAmount(s)
	return nil
}

// DecodeAmount is the inverse of String, used when reading records back from
// storage.
func DecodeAmount(s string) Amount {
	if s == ErrorToken {
		return MalformedAmount()
	}
	return ParseAmount(s)
}
