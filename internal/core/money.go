package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents supported currencies
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// IsValid checks the currency against the fixed enumeration
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP:
		return true
	}
	return false
}

// Money is an immutable amount/currency pair.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

// NewMoney creates a money value
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// GreaterThan reports whether m is strictly greater than other.
// Comparing across currencies is illegal and returns ErrCurrencyMismatch
// instead of comparing raw magnitudes.
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: cannot compare %s and %s without conversion",
			ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.GreaterThan(other.Amount), nil
}

// LessThan reports whether m is strictly less than other, with the same
// cross-currency rule as GreaterThan.
func (m Money) LessThan(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: cannot compare %s and %s without conversion",
			ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.LessThan(other.Amount), nil
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
