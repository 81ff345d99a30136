package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"BreakoutScanner/internal/model"
)

// alpacaBars is the subset of marketdata.Client used here.
type alpacaBars interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements BarFetcher using the Alpaca market data API.
// Alpaca does not publish capitalization, so it is paired with another CapFetcher.
type AlpacaFetcher struct {
	Client alpacaBars
	Feed   string
	Now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher for the given feed ("iex" or "sip").
func NewAlpacaFetcher(apiKey, apiSecret, feed string) *AlpacaFetcher {
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		Feed: feed,
		Now:  time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// parseTimeFrame converts "5m" / "1h" style intervals to an Alpaca TimeFrame.
func parseTimeFrame(interval string) (marketdata.TimeFrame, error) {
	if len(interval) < 2 {
		return marketdata.TimeFrame{}, fmt.Errorf("invalid interval %q", interval)
	}
	n, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil || n <= 0 {
		return marketdata.TimeFrame{}, fmt.Errorf("invalid interval %q", interval)
	}
	switch strings.ToLower(interval[len(interval)-1:]) {
	case "m":
		return marketdata.NewTimeFrame(n, marketdata.Min), nil
	case "h":
		return marketdata.NewTimeFrame(n, marketdata.Hour), nil
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("unsupported interval unit in %q", interval)
	}
}

// FetchIntradayBars returns bars from lookbackDays calendar days ago until now.
// The SDK call is not context-aware, so cancellation abandons the request.
func (f *AlpacaFetcher) FetchIntradayBars(ctx context.Context, symbol string, lookbackDays int, interval string) ([]model.Bar, error) {
	tf, err := parseTimeFrame(interval)
	if err != nil {
		return nil, err
	}
	end := f.Now()
	req := marketdata.GetBarsRequest{
		TimeFrame:  tf,
		Adjustment: marketdata.All,
		Start:      end.AddDate(0, 0, -lookbackDays),
		End:        end,
		Feed:       marketdata.Feed(f.Feed),
	}

	type result struct {
		bars []marketdata.Bar
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		bars, err := f.Client.GetBars(symbol, req)
		ch <- result{bars, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, ctx.Err())
	case res = <-ch:
	}
	if res.err != nil {
		return nil, fmt.Errorf("%w: alpaca bars %s: %v", model.ErrGatewayFailure, symbol, res.err)
	}

	bars := make([]model.Bar, 0, len(res.bars))
	for _, b := range res.bars {
		bars = append(bars, model.Bar{
			Time:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}
	return bars, nil
}
