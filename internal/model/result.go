package model

import "time"

// BreakoutResult is the immutable record of one matched ticker.
// Prices and the percentage are already rounded for reporting.
type BreakoutResult struct {
	Ticker                 string  `json:"ticker"`
	Price                  float64 `json:"price"`
	PrevInitialBalanceHigh float64 `json:"prev_ib_high"`
	OvernightHigh          float64 `json:"overnight_high"`
	BreakoutPercent        float64 `json:"breakout_pct"`
	MarketCap              float64 `json:"market_cap"`
	MarketCapKnown         bool    `json:"market_cap_known"`
}

// FailedLeg names which side of the breakout rule was not satisfied.
type FailedLeg string

const (
	LegInitialBalance FailedLeg = "PREV_IB_HIGH"
	LegOvernight      FailedLeg = "OVERNIGHT_HIGH"
	LegBoth           FailedLeg = "BOTH"
)

// NonMatch is a ticker that was fully evaluated but did not break out.
type NonMatch struct {
	Ticker                 string    `json:"ticker"`
	Price                  float64   `json:"price"`
	PrevInitialBalanceHigh float64   `json:"prev_ib_high"`
	OvernightHigh          float64   `json:"overnight_high"`
	FailedLeg              FailedLeg `json:"failed_leg"`
}

// Skip is a diagnostics record for a ticker that could not be evaluated.
type Skip struct {
	Ticker string   `json:"ticker"`
	Kind   SkipKind `json:"kind"`
	Reason string   `json:"reason"`
}

// ScanStatus is the scan-level outcome.
type ScanStatus string

const (
	StatusMatches        ScanStatus = "ok-with-matches"
	StatusNoMatches      ScanStatus = "ok-no-matches"
	StatusPartialFailure ScanStatus = "partial-failure"
)

// RankKey selects the ordering of matches in a report.
type RankKey string

const (
	RankByBreakout       RankKey = "breakout"
	RankByCapitalization RankKey = "capitalization"
)

// Report is the sole output artifact of a scan.
type Report struct {
	ScanID       string           `json:"scan_id"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
	UniverseSize int              `json:"universe_size"`
	RankBy       RankKey          `json:"rank_by"`
	Status       ScanStatus       `json:"status"`
	Matches      []BreakoutResult `json:"matches"`
	NonMatches   []NonMatch       `json:"non_matches"`
	Filtered     []string         `json:"filtered"`
	Skipped      []Skip           `json:"skipped"`
}
