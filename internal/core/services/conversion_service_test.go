package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/core/services"
)

type ConversionServiceTestSuite struct {
	suite.Suite
	ctx              context.Context
	mockCurrencyRepo *MockCurrencyRepository
	mockRateProvider *MockRateProvider
	service          portssvc.ConversionSvcFacade
}

func (s *ConversionServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCurrencyRepo = new(MockCurrencyRepository)
	s.mockRateProvider = new(MockRateProvider)
	s.service = services.NewConversionService(s.mockCurrencyRepo, s.mockRateProvider)
}

func (s *ConversionServiceTestSuite) knownCurrency(code string) {
	s.mockCurrencyRepo.On("FindCurrencyByCode", s.ctx, code).Return(&domain.Currency{CurrencyCode: code}, nil)
}

func (s *ConversionServiceTestSuite) TestConvert_RoundsHalfUpToTwoPlaces() {
	s.knownCurrency("USD")
	s.knownCurrency("EUR")
	s.mockRateProvider.On("GetRate", s.ctx, "USD", "EUR").Return(decimal.RequireFromString("0.855"), nil)

	conv, err := s.service.Convert(s.ctx, decimal.NewFromInt(100), "USD", "EUR")

	s.Require().NoError(err)
	s.True(conv.ConvertedAmount.Equal(decimal.RequireFromString("85.50")), "got %s", conv.ConvertedAmount)
	// The rate itself stays unrounded.
	s.True(conv.Rate.Equal(decimal.RequireFromString("0.855")))
}

func (s *ConversionServiceTestSuite) TestConvert_IdentityNeverCallsProvider() {
	s.knownCurrency("USD")

	conv, err := s.service.Convert(s.ctx, decimal.RequireFromString("42.37"), "USD", "USD")

	s.Require().NoError(err)
	s.True(conv.ConvertedAmount.Equal(decimal.RequireFromString("42.37")))
	s.True(conv.Rate.Equal(decimal.NewFromInt(1)))
	s.mockRateProvider.AssertNotCalled(s.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ConversionServiceTestSuite) TestConvert_ProviderFailure() {
	s.knownCurrency("USD")
	s.knownCurrency("EUR")
	s.mockRateProvider.On("GetRate", s.ctx, "USD", "EUR").
		Return(decimal.Zero, fmt.Errorf("%w: upstream down", apperrors.ErrRateUnavailable))

	_, err := s.service.Convert(s.ctx, decimal.NewFromInt(10), "USD", "EUR")

	s.True(errors.Is(err, apperrors.ErrRateUnavailable))
}

func (s *ConversionServiceTestSuite) TestConvert_UnknownCurrency() {
	s.mockCurrencyRepo.On("FindCurrencyByCode", s.ctx, "XXX").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.Convert(s.ctx, decimal.NewFromInt(10), "XXX", "EUR")

	s.True(errors.Is(err, apperrors.ErrUnknownCurrency))
	s.mockRateProvider.AssertNotCalled(s.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ConversionServiceTestSuite) TestConvert_NonPositiveAmount() {
	_, err := s.service.Convert(s.ctx, decimal.Zero, "USD", "EUR")
	s.True(errors.Is(err, apperrors.ErrInvalidAmount))
}

func TestConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}
