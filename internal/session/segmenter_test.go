package session

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"BreakoutScanner/internal/model"
)

func newTestSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	s, err := NewSegmenter(ReferenceTimezone)
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}
	return s
}

// at builds a bar at a Chicago wall-clock time with the given high and close.
func at(t *testing.T, s *Segmenter, clock string, high, close float64) model.Bar {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", clock, s.Location())
	if err != nil {
		t.Fatalf("parse %q: %v", clock, err)
	}
	low := math.Min(close, high) - 0.5
	return model.Bar{Time: ts, Open: close, High: high, Low: low, Close: close, Volume: 1000}
}

func TestSegment_Empty(t *testing.T) {
	s := newTestSegmenter(t)
	sessions, err := s.Segment(nil)
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if sessions != nil {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}
}

func TestSegment_SingleDay(t *testing.T) {
	s := newTestSegmenter(t)
	bars := []model.Bar{
		at(t, s, "2024-03-05 03:00", 10, 10),
		at(t, s, "2024-03-05 08:45", 11, 11),
		at(t, s, "2024-03-05 12:00", 12, 12),
	}
	sessions, err := s.Segment(bars)
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if sessions != nil {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}
}

func TestSegment_ConvertsToReferenceZone(t *testing.T) {
	s := newTestSegmenter(t)
	// Two UTC dates, but a single Chicago date (2024-03-04).
	bars := []model.Bar{
		{Time: time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC), Open: 10, High: 10, Low: 9, Close: 10},
		{Time: time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC), Open: 10, High: 11, Low: 9, Close: 10},
	}
	if _, err := s.Segment(bars); !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("expected a single Chicago session, got err=%v", err)
	}

	bars = append(bars, model.Bar{Time: time.Date(2024, 3, 5, 14, 45, 0, 0, time.UTC), Open: 10, High: 12, Low: 9, Close: 11})
	sessions, err := s.Segment(bars)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if got := sessions[0].Date.Format("2006-01-02"); got != "2024-03-04" {
		t.Errorf("first session = %s, want 2024-03-04", got)
	}
	if len(sessions[0].Bars) != 2 || len(sessions[1].Bars) != 1 {
		t.Errorf("unexpected split: %d / %d", len(sessions[0].Bars), len(sessions[1].Bars))
	}
	if h := sessions[1].Bars[0].Time.Hour(); h != 8 {
		t.Errorf("expected 08:45 local, got hour %d", h)
	}
}

func TestSegment_UsesLastTwoPresentDays(t *testing.T) {
	s := newTestSegmenter(t)
	// Thursday, Friday, then Monday after a weekend gap.
	bars := []model.Bar{
		at(t, s, "2024-03-07 09:00", 50, 50),
		at(t, s, "2024-03-08 09:00", 100, 99),
		at(t, s, "2024-03-11 07:00", 101, 101),
		at(t, s, "2024-03-11 10:00", 102, 102),
	}
	snap, err := s.Snapshot("XYZ", bars)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got := snap.Yesterday().Date.Format("2006-01-02"); got != "2024-03-08" {
		t.Errorf("yesterday = %s, want 2024-03-08", got)
	}
	if got := snap.Today().Date.Format("2006-01-02"); got != "2024-03-11" {
		t.Errorf("today = %s, want 2024-03-11", got)
	}
	if snap.PrevInitialBalanceHigh != 100 {
		t.Errorf("prev IB high = %v, want 100", snap.PrevInitialBalanceHigh)
	}
}

func TestWindow_HalfOpen(t *testing.T) {
	s := newTestSegmenter(t)
	loc := s.Location()
	day := func(h, m, sec int) time.Time { return time.Date(2024, 3, 5, h, m, sec, 0, loc) }

	tests := []struct {
		name string
		w    Window
		t    time.Time
		want bool
	}{
		{"ib start inclusive", InitialBalance, day(8, 30, 0), true},
		{"ib inside", InitialBalance, day(9, 29, 59), true},
		{"ib end exclusive", InitialBalance, day(9, 30, 0), false},
		{"ib before", InitialBalance, day(8, 29, 59), false},
		{"on midnight inclusive", Overnight, day(0, 0, 0), true},
		{"on inside", Overnight, day(8, 25, 0), true},
		{"on end exclusive", Overnight, day(8, 30, 0), false},
		{"on afternoon", Overnight, day(15, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Contains(tt.t); got != tt.want {
				t.Errorf("%s.Contains(%s) = %v, want %v", tt.w, tt.t.Format("15:04:05"), got, tt.want)
			}
		})
	}
}

func TestSnapshot_Values(t *testing.T) {
	s := newTestSegmenter(t)
	bars := []model.Bar{
		at(t, s, "2024-03-04 08:00", 120, 95), // outside IB: ignored
		at(t, s, "2024-03-04 08:30", 99, 98),
		at(t, s, "2024-03-04 09:25", 100, 99),
		at(t, s, "2024-03-04 09:30", 130, 97), // IB end is exclusive
		at(t, s, "2024-03-05 03:00", 101.5, 101),
		at(t, s, "2024-03-05 08:25", 101, 100.5),
		at(t, s, "2024-03-05 08:30", 103, 102.5), // overnight end is exclusive
		at(t, s, "2024-03-05 09:00", 102.2, 102),
	}
	snap, err := s.Snapshot("XYZ", bars)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.PrevInitialBalanceHigh != 100 {
		t.Errorf("prev IB high = %v, want 100", snap.PrevInitialBalanceHigh)
	}
	if snap.OvernightHigh != 101.5 {
		t.Errorf("overnight high = %v, want 101.5", snap.OvernightHigh)
	}
	if snap.CurrentPrice != 102 {
		t.Errorf("current price = %v, want 102", snap.CurrentPrice)
	}
}

func TestSnapshot_EmptyInitialBalance(t *testing.T) {
	s := newTestSegmenter(t)
	bars := []model.Bar{
		at(t, s, "2024-03-04 07:00", 99, 98),
		at(t, s, "2024-03-04 14:00", 100, 99),
		at(t, s, "2024-03-05 03:00", 101.5, 101),
		at(t, s, "2024-03-05 09:00", 102.2, 102),
	}
	_, err := s.Snapshot("XYZ", bars)
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "initial_balance") {
		t.Errorf("reason should name the window: %v", err)
	}
}

func TestSnapshot_EmptyOvernight(t *testing.T) {
	s := newTestSegmenter(t)
	bars := []model.Bar{
		at(t, s, "2024-03-04 09:00", 100, 99),
		at(t, s, "2024-03-05 09:00", 102.2, 102),
	}
	_, err := s.Snapshot("XYZ", bars)
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "overnight") {
		t.Errorf("reason should name the window: %v", err)
	}
}

func TestValidate_Malformed(t *testing.T) {
	base := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	good := model.Bar{Time: base, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100}
	next := func(b model.Bar) model.Bar { b.Time = base.Add(5 * time.Minute); return b }

	tests := []struct {
		name string
		bars []model.Bar
	}{
		{"duplicate timestamp", []model.Bar{good, good}},
		{"backwards timestamp", []model.Bar{next(good), good}},
		{"NaN close", []model.Bar{good, next(model.Bar{Open: 10, High: 11, Low: 9, Close: math.NaN()})}},
		{"zero price", []model.Bar{good, next(model.Bar{Open: 0, High: 11, Low: 0, Close: 10})}},
		{"high below close", []model.Bar{good, next(model.Bar{Open: 10, High: 10, Low: 9, Close: 10.5})}},
		{"low above open", []model.Bar{good, next(model.Bar{Open: 9, High: 11, Low: 9.5, Close: 10})}},
		{"negative volume", []model.Bar{good, next(model.Bar{Open: 10, High: 11, Low: 9, Close: 10, Volume: -1})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.bars); !errors.Is(err, model.ErrMalformedBar) {
				t.Errorf("expected ErrMalformedBar, got %v", err)
			}
		})
	}

	if err := Validate([]model.Bar{good, next(good)}); err != nil {
		t.Errorf("valid series rejected: %v", err)
	}
}

func TestSegment_MalformedIsNotDataUnavailable(t *testing.T) {
	s := newTestSegmenter(t)
	b := at(t, s, "2024-03-04 09:00", 100, 99)
	_, err := s.Segment([]model.Bar{b, b})
	if !errors.Is(err, model.ErrMalformedBar) {
		t.Fatalf("expected ErrMalformedBar, got %v", err)
	}
	if model.Classify(err) != model.KindMalformedBar {
		t.Errorf("classified as %s", model.Classify(err))
	}
}

func TestDay(t *testing.T) {
	s := newTestSegmenter(t)
	bars := []model.Bar{
		at(t, s, "2024-03-04 09:00", 100, 99),
		at(t, s, "2024-03-05 03:00", 101, 100),
		at(t, s, "2024-03-05 09:00", 102, 101),
	}
	sessions, err := s.Segment(bars)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	got := s.Day(sessions, time.Date(2024, 3, 5, 12, 0, 0, 0, s.Location()))
	if len(got) != 2 {
		t.Errorf("expected 2 bars for 2024-03-05, got %d", len(got))
	}
	if got := s.Day(sessions, time.Date(2024, 3, 6, 12, 0, 0, 0, s.Location())); got != nil {
		t.Errorf("expected no bars for missing day, got %d", len(got))
	}
}
