package output

import (
	"github.com/payflow/payment-engine/internal/core"
	"github.com/shopspring/decimal"
)

// ExchangeRateSource is an output port (secondary port) for currency rates
type ExchangeRateSource interface {
	// Rate returns the multiplier from one currency to another.
	// Returns core.ErrRateNotFound when no rate is configured for the pair.
	Rate(from, to core.Currency) (decimal.Decimal, error)
}
