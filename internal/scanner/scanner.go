// Package scanner runs one breakout scan over a ticker universe.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"BreakoutScanner/internal/collector"
	"BreakoutScanner/internal/logger"
	"BreakoutScanner/internal/model"
	"BreakoutScanner/internal/report"
	"BreakoutScanner/internal/session"
	"BreakoutScanner/internal/strategy"
	"BreakoutScanner/internal/universe"
)

const (
	defaultWorkers      = 4
	defaultTimeout      = 30 * time.Second
	defaultLookbackDays = 3
	defaultInterval     = "5m"
)

// Scanner wires the universe, the market data gateway and the evaluation
// pipeline together. Caps may be nil, in which case every ticker has unknown
// capitalization and nothing is filtered.
type Scanner struct {
	Universe  universe.Provider
	Bars      collector.BarFetcher
	Caps      collector.CapFetcher
	Segmenter *session.Segmenter
	Filter    strategy.CapitalizationFilter
	RankBy    model.RankKey
	Progress  ProgressReporter

	Workers      int
	Timeout      time.Duration
	LookbackDays int
	Interval     string

	now func() time.Time
}

// New creates a Scanner with default tuning. Callers adjust the exported
// fields before calling Run.
func New(u universe.Provider, bars collector.BarFetcher, caps collector.CapFetcher, seg *session.Segmenter) *Scanner {
	return &Scanner{
		Universe:     u,
		Bars:         bars,
		Caps:         caps,
		Segmenter:    seg,
		Filter:       strategy.NewCapitalizationFilter(0),
		RankBy:       model.RankByBreakout,
		Workers:      defaultWorkers,
		Timeout:      defaultTimeout,
		LookbackDays: defaultLookbackDays,
		Interval:     defaultInterval,
	}
}

func (s *Scanner) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Run executes one scan. A universe failure is fatal and returned wrapped in
// model.ErrGatewayFailure. Per-ticker failures never abort the scan; they are
// recorded as skips in the report. If ctx is cancelled the scan stops
// dispatching and returns ctx.Err().
func (s *Scanner) Run(ctx context.Context) (*model.Report, error) {
	startedAt := s.clock()
	scanID := uuid.NewString()

	tickers, err := s.Universe.Tickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load universe: %w", model.ErrGatewayFailure, err)
	}
	logger.Info("scan %s: %d tickers, %d workers", scanID, len(tickers), s.workers())

	progress := s.Progress
	if progress == nil {
		progress = noProgress{}
	}
	agg := report.NewAggregator(s.RankBy)

	var g errgroup.Group
	g.SetLimit(s.workers())
	for i, ticker := range tickers {
		if ctx.Err() != nil {
			break
		}
		progress.OnProgress(ticker, i+1, len(tickers))
		g.Go(func() error {
			s.scanTicker(ctx, ticker, agg)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warn("scan %s cancelled: %v", scanID, err)
		return nil, err
	}

	r := agg.Report(scanID, len(tickers), startedAt, s.clock())
	logger.Info("scan %s finished: %s, %d matches, %d filtered, %d skipped",
		scanID, r.Status, len(r.Matches), len(r.Filtered), len(r.Skipped))
	return r, nil
}

func (s *Scanner) workers() int {
	if s.Workers < 1 {
		return 1
	}
	return s.Workers
}

// scanTicker runs the per-ticker pipeline and records exactly one outcome.
func (s *Scanner) scanTicker(ctx context.Context, ticker string, agg *report.Aggregator) {
	defer func() {
		if r := recover(); r != nil {
			s.skip(agg, ticker, fmt.Errorf("%w: panic: %v", model.ErrGatewayFailure, r))
		}
	}()

	marketCap, reported := s.capitalization(ctx, ticker)
	admit, known := s.Filter.Admit(marketCap, reported)
	if !admit {
		logger.Debug("%s filtered: %s", ticker, s.Filter.Describe(marketCap))
		agg.AddFiltered(ticker)
		return
	}

	bars, err := s.fetchBars(ctx, ticker)
	if err != nil {
		s.skip(agg, ticker, err)
		return
	}
	snap, err := s.Segmenter.Snapshot(ticker, bars)
	if err != nil {
		s.skip(agg, ticker, err)
		return
	}
	if known {
		snap.MarketCap, snap.MarketCapKnown = marketCap, true
	}

	match, miss := strategy.Evaluate(snap)
	if match != nil {
		logger.Debug("%s breakout %.2f%% above %.2f", ticker, match.BreakoutPercent, match.PrevInitialBalanceHigh)
		agg.AddMatch(*match)
		return
	}
	agg.AddNonMatch(*miss)
}

// capitalization fetches market cap. Errors degrade to unknown.
func (s *Scanner) capitalization(ctx context.Context, ticker string) (float64, bool) {
	if s.Caps == nil {
		return 0, false
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	marketCap, known, err := s.Caps.FetchCapitalization(cctx, ticker)
	if err != nil {
		logger.Warn("%s market cap unavailable: %v", ticker, err)
		return 0, false
	}
	return marketCap, known
}

func (s *Scanner) fetchBars(ctx context.Context, ticker string) ([]model.Bar, error) {
	bctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	bars, err := s.Bars.FetchIntradayBars(bctx, ticker, s.LookbackDays, s.Interval)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars returned", model.ErrDataUnavailable)
	}
	return bars, nil
}

func (s *Scanner) timeout() time.Duration {
	if s.Timeout <= 0 {
		return defaultTimeout
	}
	return s.Timeout
}

func (s *Scanner) skip(agg *report.Aggregator, ticker string, err error) {
	kind := model.Classify(err)
	if kind == model.KindGatewayFailure {
		logger.Warn("%s skipped: %v", ticker, err)
	} else {
		logger.Debug("%s skipped: %v", ticker, err)
	}
	agg.AddSkip(model.Skip{Ticker: ticker, Kind: kind, Reason: err.Error()})
}
