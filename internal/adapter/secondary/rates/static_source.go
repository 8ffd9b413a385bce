// Package rates provides a fixed-table implementation of the exchange rate
// port. Real deployments would swap in a market data feed behind the same
// interface.
package rates

import (
	"fmt"

	"github.com/payflow/payment-engine/internal/core"
	"github.com/shopspring/decimal"
)

// StaticSource serves exchange rates from a fixed in-memory table
type StaticSource struct {
	rates map[string]decimal.Decimal
}

// NewStaticSource creates a rate source with the built-in rate table
func NewStaticSource() *StaticSource {
	return &StaticSource{
		rates: map[string]decimal.Decimal{
			"USD_EUR": decimal.NewFromFloat(0.92),
			"EUR_USD": decimal.NewFromFloat(1.09),
			"USD_GBP": decimal.NewFromFloat(0.78),
			"GBP_USD": decimal.NewFromFloat(1.28),
			"EUR_GBP": decimal.NewFromFloat(0.85),
			"GBP_EUR": decimal.NewFromFloat(1.18),
		},
	}
}

// Rate returns the configured multiplier for a currency pair.
// Returns core.ErrRateNotFound for unconfigured pairs.
func (s *StaticSource) Rate(from, to core.Currency) (decimal.Decimal, error) {
	rate, ok := s.rates[fmt.Sprintf("%s_%s", from, to)]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s to %s", core.ErrRateNotFound, from, to)
	}
	return rate, nil
}
