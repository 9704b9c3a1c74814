package dto

import (
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyResponse defines data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
}

// ToCurrencyResponse converts domain.Currency to DTO.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: c.CurrencyCode,
		Symbol:       c.Symbol,
		Name:         c.Name,
	}
}

// ToListCurrenciesResponse converts a slice of domain.Currency to DTOs.
func ToListCurrenciesResponse(cs []domain.Currency) []CurrencyResponse {
	list := make([]CurrencyResponse, len(cs))
	for i := range cs {
		list[i] = ToCurrencyResponse(&cs[i])
	}
	return list
}

// ConvertQuery binds the ad-hoc conversion endpoint's query parameters. The
// amount stays a string here; the handler parses it into a decimal so no
// float conversion touches the value.
type ConvertQuery struct {
	Amount string `form:"amount" binding:"required"`
	From   string `form:"from" binding:"required,iso4217"`
	To     string `form:"to" binding:"required,iso4217"`
}

// ConversionResponse defines data returned for a conversion.
type ConversionResponse struct {
	Amount          decimal.Decimal `json:"amount"`
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Rate            decimal.Decimal `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
}

// ToConversionResponse converts domain.Conversion to DTO.
func ToConversionResponse(c *domain.Conversion) ConversionResponse {
	return ConversionResponse{
		Amount:          c.Amount,
		FromCurrency:    c.FromCurrency,
		ToCurrency:      c.ToCurrency,
		Rate:            c.Rate,
		ConvertedAmount: c.ConvertedAmount,
	}
}
