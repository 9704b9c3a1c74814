package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	"github.com/expensehq/expense_mgmt_app/internal/core/ports/providers"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
)

// ConversionService converts amounts between currencies at the current rate.
type ConversionService struct {
	currencyRepo portsrepo.CurrencyReader
	rateProvider providers.RateProvider
}

// NewConversionService creates a new ConversionService.
func NewConversionService(currencyRepo portsrepo.CurrencyReader, rateProvider providers.RateProvider) portssvc.ConversionSvcFacade {
	return &ConversionService{
		currencyRepo: currencyRepo,
		rateProvider: rateProvider,
	}
}

var _ portssvc.ConversionSvcFacade = (*ConversionService)(nil)

// Convert converts amount from one currency to another. The converted amount
// is rounded half-up to two decimal places; the rate itself is never rounded.
// Identity conversions return rate 1 without touching the provider.
func (s *ConversionService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (*domain.Conversion, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
	}

	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)

	for _, code := range []string{fromCode, toCode} {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency code %s", apperrors.ErrUnknownCurrency, code)
			}
			return nil, fmt.Errorf("failed to validate currency %s: %w", code, err)
		}
	}

	if fromCode == toCode {
		return &domain.Conversion{
			Amount:          amount,
			FromCurrency:    fromCode,
			ToCurrency:      toCode,
			Rate:            decimal.NewFromInt(1),
			ConvertedAmount: amount,
		}, nil
	}

	rate, err := s.rateProvider.GetRate(ctx, fromCode, toCode)
	if err != nil {
		logger.Warn("Exchange rate lookup failed",
			slog.String("from", fromCode),
			slog.String("to", toCode),
			slog.String("error", err.Error()))
		return nil, err
	}

	return &domain.Conversion{
		Amount:          amount,
		FromCurrency:    fromCode,
		ToCurrency:      toCode,
		Rate:            rate,
		ConvertedAmount: amount.Mul(rate).Round(2),
	}, nil
}
