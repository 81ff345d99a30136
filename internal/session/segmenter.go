// Package session splits a ticker's intraday bars into calendar days in the
// reference timezone and extracts the initial-balance and overnight windows.
package session

import (
	"fmt"
	"math"
	"sort"
	"time"
	_ "time/tzdata"

	"BreakoutScanner/internal/calculator"
	"BreakoutScanner/internal/model"
)

type date struct {
	year  int
	month time.Month
	day   int
}

// Segmenter converts bar series into sessions.
type Segmenter struct {
	loc *time.Location
}

// NewSegmenter loads the named timezone.
func NewSegmenter(tz string) (*Segmenter, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return &Segmenter{loc: loc}, nil
}

// Location returns the reference timezone.
func (s *Segmenter) Location() *time.Location { return s.loc }

// Validate checks the Bar invariants over an ordered series.
func Validate(bars []model.Bar) error {
	for i, b := range bars {
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return fmt.Errorf("%w: timestamp %s not after %s at index %d",
				model.ErrMalformedBar, b.Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339), i)
		}
		for _, p := range []float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
				return fmt.Errorf("%w: invalid price %v at %s", model.ErrMalformedBar, p, b.Time.Format(time.RFC3339))
			}
		}
		if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) || b.Volume < 0 {
			return fmt.Errorf("%w: invalid volume %v at %s", model.ErrMalformedBar, b.Volume, b.Time.Format(time.RFC3339))
		}
		if b.High < b.Open || b.High < b.Close || b.High < b.Low ||
			b.Low > b.Open || b.Low > b.Close {
			return fmt.Errorf("%w: inconsistent OHLC o=%v h=%v l=%v c=%v at %s",
				model.ErrMalformedBar, b.Open, b.High, b.Low, b.Close, b.Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Segment validates bars, converts them to the reference timezone and groups
// them by calendar date, ascending. At least two distinct days are required.
func (s *Segmenter) Segment(bars []model.Bar) ([]model.Session, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: empty bar series", model.ErrDataUnavailable)
	}
	if err := Validate(bars); err != nil {
		return nil, err
	}

	byDate := make(map[date][]model.Bar)
	for _, b := range bars {
		b.Time = b.Time.In(s.loc)
		y, m, d := b.Time.Date()
		key := date{y, m, d}
		byDate[key] = append(byDate[key], b)
	}
	if len(byDate) < 2 {
		return nil, fmt.Errorf("%w: %d distinct session(s), need 2", model.ErrDataUnavailable, len(byDate))
	}

	sessions := make([]model.Session, 0, len(byDate))
	for key, dayBars := range byDate {
		day := time.Date(key.year, key.month, key.day, 0, 0, 0, 0, s.loc)
		sessions = append(sessions, model.Session{Date: day, Bars: dayBars})
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Date.Before(sessions[j].Date) })
	return sessions, nil
}

// Day returns the bars whose normalized date equals day.
func (s *Segmenter) Day(sessions []model.Session, day time.Time) []model.Bar {
	y, m, d := day.In(s.loc).Date()
	for _, sess := range sessions {
		sy, sm, sd := sess.Date.Date()
		if sy == y && sm == m && sd == d {
			return sess.Bars
		}
	}
	return nil
}

// Snapshot builds the per-ticker working state: sessions plus the previous
// initial-balance high, today's overnight high and the latest close.
func (s *Segmenter) Snapshot(ticker string, bars []model.Bar) (*model.TickerSnapshot, error) {
	sessions, err := s.Segment(bars)
	if err != nil {
		return nil, err
	}
	snap := &model.TickerSnapshot{Ticker: ticker, Sessions: sessions}
	yesterday, today := snap.Yesterday(), snap.Today()

	ib, err := calculator.High(InitialBalance.Apply(yesterday))
	if err != nil {
		return nil, fmt.Errorf("%w: no %s bars on %s", model.ErrDataUnavailable, InitialBalance, yesterday.Date.Format("2006-01-02"))
	}
	on, err := calculator.High(Overnight.Apply(today))
	if err != nil {
		return nil, fmt.Errorf("%w: no %s bars on %s", model.ErrDataUnavailable, Overnight, today.Date.Format("2006-01-02"))
	}
	price, err := calculator.LastClose(today.Bars)
	if err != nil {
		return nil, fmt.Errorf("%w: no bars on %s", model.ErrDataUnavailable, today.Date.Format("2006-01-02"))
	}

	snap.PrevInitialBalanceHigh = ib
	snap.OvernightHigh = on
	snap.CurrentPrice = price
	return snap, nil
}
