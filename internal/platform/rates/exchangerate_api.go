// Package rates implements exchange rate retrieval against the
// exchangerate-api.com v4 API, with an optional Redis-backed cache.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
)

// APIClient fetches spot rates from exchangerate-api.com.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a rate client for the given base URL, e.g.
// "https://api.exchangerate-api.com/v4".
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// latestResponse is the shape of the /latest/{base} payload.
type latestResponse struct {
	Base  string                 `json:"base"`
	Rates map[string]json.Number `json:"rates"`
}

// GetRate returns the spot rate from base to target currency.
// Any transport or payload failure is reported as apperrors.ErrRateUnavailable
// so callers can degrade instead of failing the business operation.
func (c *APIClient) GetRate(ctx context.Context, base, target string) (decimal.Decimal, error) {
	base = strings.ToUpper(base)
	target = strings.ToUpper(target)
	if base == target {
		return decimal.NewFromInt(1), nil
	}

	url := fmt.Sprintf("%s/latest/%s", c.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: fetching rates for %s: %v", apperrors.ErrRateUnavailable, base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: rate API returned status %d for %s", apperrors.ErrRateUnavailable, resp.StatusCode, base)
	}

	var payload latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decoding rate response for %s: %v", apperrors.ErrRateUnavailable, base, err)
	}

	raw, ok := payload.Rates[target]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate from %s to %s", apperrors.ErrRateUnavailable, base, target)
	}

	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid rate value %q for %s/%s", apperrors.ErrRateUnavailable, raw.String(), base, target)
	}
	if rate.IsZero() || rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: non-positive rate %s for %s/%s", apperrors.ErrRateUnavailable, rate.String(), base, target)
	}
	return rate, nil
}
