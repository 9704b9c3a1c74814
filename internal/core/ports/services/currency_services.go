package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
}

// ConversionSvcFacade defines currency conversion against live exchange rates.
type ConversionSvcFacade interface {
	// Convert converts amount from one currency to another using the current rate.
	// The converted amount is rounded half-up to two decimal places.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (*domain.Conversion, error)
}
