// Package valueobject holds small immutable values shared by the domain.
package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code. The store only sells in reais.
type Currency string

const BRL Currency = "BRL"

// Money is an amount in reais. The zero value is R$ 0.00.
type Money struct {
	amount decimal.Decimal
}

// NewMoneyBRL wraps an amount in reais
func NewMoneyBRL(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// ParseMoneyBRL reads a decimal string such as "25.21"
func ParseMoneyBRL(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency       { return BRL }
func (m Money) IsZero() bool             { return m.amount.IsZero() }

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// StringFixed formats the amount with a fixed number of decimals, "151.05"
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// String formats the amount the way messages show it, "R$151.05"
func (m Money) String() string {
	return "R$" + m.amount.StringFixed(2)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON writes {"amount":"151.05","currency":"BRL"}. The amount is a
// string so clients never round through a float.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.StringFixed(2), Currency: BRL})
}

// UnmarshalJSON accepts the MarshalJSON form. Only BRL is accepted.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Currency != "" && v.Currency != BRL {
		return fmt.Errorf("unsupported currency %q", v.Currency)
	}
	parsed, err := ParseMoneyBRL(v.Amount)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
