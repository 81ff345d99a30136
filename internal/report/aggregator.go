// Package report collects per-ticker outcomes and produces the ranked scan report.
package report

import (
	"sort"
	"sync"
	"time"

	"BreakoutScanner/internal/model"
)

// Aggregator is the single synchronization point of a scan. It is safe for
// concurrent use and is discarded after Report is called.
type Aggregator struct {
	mu         sync.Mutex
	rankBy     model.RankKey
	matches    []model.BreakoutResult
	nonMatches []model.NonMatch
	filtered   []string
	skipped    []model.Skip
}

// NewAggregator creates an empty aggregator ranking by key.
func NewAggregator(rankBy model.RankKey) *Aggregator {
	return &Aggregator{rankBy: rankBy}
}

func (a *Aggregator) AddMatch(r model.BreakoutResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.matches = append(a.matches, r)
}

func (a *Aggregator) AddNonMatch(n model.NonMatch) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nonMatches = append(a.nonMatches, n)
}

func (a *Aggregator) AddFiltered(ticker string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filtered = append(a.filtered, ticker)
}

func (a *Aggregator) AddSkip(s model.Skip) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.skipped = append(a.skipped, s)
}

// Report builds the final ordered report.
func (a *Aggregator) Report(scanID string, universeSize int, startedAt, finishedAt time.Time) *model.Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := &model.Report{
		ScanID:       scanID,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
		UniverseSize: universeSize,
		RankBy:       a.rankBy,
		Matches:      Rank(a.matches, a.rankBy),
		NonMatches:   append([]model.NonMatch{}, a.nonMatches...),
		Filtered:     append([]string{}, a.filtered...),
		Skipped:      append([]model.Skip{}, a.skipped...),
	}
	sort.Slice(r.NonMatches, func(i, j int) bool { return r.NonMatches[i].Ticker < r.NonMatches[j].Ticker })
	sort.Strings(r.Filtered)
	sort.Slice(r.Skipped, func(i, j int) bool { return r.Skipped[i].Ticker < r.Skipped[j].Ticker })
	r.Status = Status(r.Matches, r.Skipped)
	return r
}

// Status derives the scan-level outcome. Only gateway failures make a scan
// partial; data gaps are ordinary "insufficient data" outcomes.
func Status(matches []model.BreakoutResult, skipped []model.Skip) model.ScanStatus {
	for _, s := range skipped {
		if s.Kind == model.KindGatewayFailure {
			return model.StatusPartialFailure
		}
	}
	if len(matches) == 0 {
		return model.StatusNoMatches
	}
	return model.StatusMatches
}

// Rank returns a copy of results sorted descending by key, ties broken by
// ticker ascending. Unknown capitalization ranks below any known value.
func Rank(results []model.BreakoutResult, key model.RankKey) []model.BreakoutResult {
	out := append([]model.BreakoutResult{}, results...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case model.RankByCapitalization:
			if a.MarketCapKnown != b.MarketCapKnown {
				return a.MarketCapKnown
			}
			if a.MarketCapKnown && a.MarketCap != b.MarketCap {
				return a.MarketCap > b.MarketCap
			}
		default:
			if a.BreakoutPercent != b.BreakoutPercent {
				return a.BreakoutPercent > b.BreakoutPercent
			}
		}
		return a.Ticker < b.Ticker
	})
	return out
}
