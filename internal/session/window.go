package session

import (
	"fmt"
	"time"

	"BreakoutScanner/internal/model"
)

// ReferenceTimezone is the zone in which calendar days and window bounds
// are defined.
const ReferenceTimezone = "America/Chicago"

// Window is a named half-open time-of-day interval [Start, End), expressed as
// offsets from local midnight.
type Window struct {
	Name  string
	Start time.Duration
	End   time.Duration
}

var (
	// InitialBalance is the first hour of the regular session, applied to yesterday.
	InitialBalance = Window{Name: "initial_balance", Start: 8*time.Hour + 30*time.Minute, End: 9*time.Hour + 30*time.Minute}
	// Overnight is the pre-open period, applied to today.
	Overnight = Window{Name: "overnight", Start: 0, End: 8*time.Hour + 30*time.Minute}
)

func (w Window) String() string {
	return fmt.Sprintf("%s [%s, %s)", w.Name, clock(w.Start), clock(w.End))
}

// Contains reports whether t's wall-clock time of day falls in the window.
// t must already be in the reference timezone.
func (w Window) Contains(t time.Time) bool {
	tod := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return tod >= w.Start && tod < w.End
}

// Apply returns the bars of s whose time of day lies inside the window.
func (w Window) Apply(s model.Session) []model.Bar {
	var out []model.Bar
	for _, b := range s.Bars {
		if w.Contains(b.Time) {
			out = append(out, b)
		}
	}
	return out
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
