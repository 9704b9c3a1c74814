package providers

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider supplies spot exchange rates from an external source.
// Implementations may fail or be unreachable; callers degrade per the
// conversion service's contract rather than blocking submission.
type RateProvider interface {
	// GetRate returns the spot rate from base to target currency.
	GetRate(ctx context.Context, base, target string) (decimal.Decimal, error)
}

// RateCache is a read-through cache layered over a RateProvider.
type RateCache interface {
	// Get returns a cached rate, or found=false on a miss.
	Get(ctx context.Context, base, target string) (rate decimal.Decimal, found bool, err error)

	// Set stores a rate with the cache's configured TTL.
	Set(ctx context.Context, base, target string, rate decimal.Decimal) error
}
