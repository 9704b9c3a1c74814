package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
)

type APIClientTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *APIClientTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *APIClientTestSuite) TestGetRate_Success() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/latest/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.92,"INR":83.10}}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	rate, err := client.GetRate(s.ctx, "USD", "EUR")

	s.Require().NoError(err)
	s.True(rate.Equal(decimal.RequireFromString("0.92")), "got %s", rate)
}

func (s *APIClientTestSuite) TestGetRate_SameCurrencyShortCircuits() {
	// No server: identical currencies never hit the network.
	client := NewAPIClient("http://127.0.0.1:0")
	rate, err := client.GetRate(s.ctx, "usd", "USD")

	s.Require().NoError(err)
	s.True(rate.Equal(decimal.NewFromInt(1)))
}

func (s *APIClientTestSuite) TestGetRate_MissingTargetRate() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.92}}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	_, err := client.GetRate(s.ctx, "USD", "XYZ")

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrRateUnavailable))
}

func (s *APIClientTestSuite) TestGetRate_UpstreamError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	_, err := client.GetRate(s.ctx, "USD", "EUR")

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrRateUnavailable))
}

func (s *APIClientTestSuite) TestGetRate_NonPositiveRate() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0}}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	_, err := client.GetRate(s.ctx, "USD", "EUR")

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrRateUnavailable))
}

func TestAPIClientTestSuite(t *testing.T) {
	suite.Run(t, new(APIClientTestSuite))
}
