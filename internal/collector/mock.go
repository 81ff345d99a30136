package collector

import (
	"context"

	"BreakoutScanner/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars    map[string][]model.Bar
	Caps    map[string]float64
	BarErrs map[string]error
	CapErrs map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntradayBars(ctx context.Context, symbol string, _ int, _ string) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.BarErrs[symbol]; err != nil {
		return nil, err
	}
	return m.Bars[symbol], nil
}

func (m *MockFetcher) FetchCapitalization(ctx context.Context, symbol string) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if err := m.CapErrs[symbol]; err != nil {
		return 0, false, err
	}
	c, ok := m.Caps[symbol]
	return c, ok, nil
}
