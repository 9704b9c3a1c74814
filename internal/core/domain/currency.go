package domain

import "github.com/shopspring/decimal"

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	AuditFields
}

// Conversion is the result of converting an amount between two currencies.
// Ephemeral; only the converted amount is cached on the expense record.
type Conversion struct {
	Amount          decimal.Decimal `json:"amount"`
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Rate            decimal.Decimal `json:"rate"`            // not rounded
	ConvertedAmount decimal.Decimal `json:"convertedAmount"` // amount * rate, half-up, 2dp
}
