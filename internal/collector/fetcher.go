package collector

import (
	"context"

	"BreakoutScanner/internal/model"
)

// BarFetcher supplies intraday bars, including pre- and post-market.
// An empty result means "no data" and is not an error.
type BarFetcher interface {
	FetchIntradayBars(ctx context.Context, symbol string, lookbackDays int, interval string) ([]model.Bar, error)
	Name() string
}

// CapFetcher supplies market capitalization. known is false when the
// source has no figure for the symbol.
type CapFetcher interface {
	FetchCapitalization(ctx context.Context, symbol string) (marketCap float64, known bool, err error)
}
