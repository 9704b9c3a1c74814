package rates

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/expensehq/expense_mgmt_app/internal/core/ports/providers"
)

// CachedProvider layers a RateCache in front of a RateProvider.
// Cache failures are logged and bypassed; the upstream provider stays
// the source of truth.
type CachedProvider struct {
	upstream providers.RateProvider
	cache    providers.RateCache
}

// NewCachedProvider wraps upstream with the given cache.
func NewCachedProvider(upstream providers.RateProvider, cache providers.RateCache) *CachedProvider {
	return &CachedProvider{upstream: upstream, cache: cache}
}

// GetRate returns the spot rate from base to target currency, consulting
// the cache first.
func (p *CachedProvider) GetRate(ctx context.Context, base, target string) (decimal.Decimal, error) {
	rate, found, err := p.cache.Get(ctx, base, target)
	if err != nil {
		slog.WarnContext(ctx, "rate cache read failed, falling through to provider", slog.String("error", err.Error()))
	} else if found {
		return rate, nil
	}

	rate, err = p.upstream.GetRate(ctx, base, target)
	if err != nil {
		return decimal.Zero, err
	}

	if err := p.cache.Set(ctx, base, target, rate); err != nil {
		slog.WarnContext(ctx, "rate cache write failed", slog.String("error", err.Error()))
	}
	return rate, nil
}
