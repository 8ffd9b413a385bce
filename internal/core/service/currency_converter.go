package service

import (
	"fmt"

	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/port/output"
)

// CurrencyConverter implements core.CurrencyConversion on top of a rate source
type CurrencyConverter struct {
	rates output.ExchangeRateSource
}

// NewCurrencyConverter creates a currency converter
func NewCurrencyConverter(rates output.ExchangeRateSource) *CurrencyConverter {
	return &CurrencyConverter{rates: rates}
}

// Convert converts money into the target currency, rounding to two decimal
// places. Converting into the same currency is the identity.
func (c *CurrencyConverter) Convert(m core.Money, target core.Currency) (core.Money, error) {
	if m.Currency == target {
		return m, nil
	}
	rate, err := c.rates.Rate(m.Currency, target)
	if err != nil {
		return core.Money{}, fmt.Errorf("failed to convert %s to %s: %w", m.Currency, target, err)
	}
	return core.Money{
		Amount:   m.Amount.Mul(rate).Round(2),
		Currency: target,
	}, nil
}
