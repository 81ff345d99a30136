package model

import "time"

// Bar represents a single intraday candlestick.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Session is one calendar day in the reference timezone and the bars on it.
type Session struct {
	Date time.Time // midnight, reference timezone
	Bars []Bar
}

// TickerSnapshot is the per-ticker working state for one scan pass.
type TickerSnapshot struct {
	Ticker         string
	MarketCap      float64
	MarketCapKnown bool
	Sessions       []Session

	PrevInitialBalanceHigh float64
	OvernightHigh          float64
	CurrentPrice           float64
}

// Yesterday returns the second-to-last session.
func (s *TickerSnapshot) Yesterday() Session {
	return s.Sessions[len(s.Sessions)-2]
}

// Today returns the last session.
func (s *TickerSnapshot) Today() Session {
	return s.Sessions[len(s.Sessions)-1]
}
