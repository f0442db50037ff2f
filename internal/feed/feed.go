// Package feed supplies close-price series and latest quotes for currency
// pairs from external market-data vendors.
package feed

import (
	"context"
	"errors"
)

// ErrUnavailable means the vendor returned no usable data for the pair.
// It is distinct from an empty series so callers can apply their skip
// policy, and it is safe to retry on a later tick.
var ErrUnavailable = errors.New("price data unavailable")

// PriceSource is the engine's view of a market-data vendor. Both
// operations are idempotent reads.
type PriceSource interface {
	// GetSeries returns up to count closing prices for the pair at the
	// given candle interval, oldest first.
	GetSeries(ctx context.Context, pair string, intervalMin, count int) ([]float64, error)
	// GetLatest returns the most recent price for the pair.
	GetLatest(ctx context.Context, pair string) (float64, error)
}
