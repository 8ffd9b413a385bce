package core

// CurrencyConversion converts money between currencies via a pluggable
// rate source. Pure and synchronous.
type CurrencyConversion interface {
	Convert(m Money, target Currency) (Money, error)
}
