package calculator

import (
	"errors"
	"math"

	"BreakoutScanner/internal/model"
)

// ErrNoBars is returned when a range is requested over an empty slice.
var ErrNoBars = errors.New("no bars provided")

// High returns the highest high across bars.
func High(bars []model.Bar) (float64, error) {
	if len(bars) == 0 {
		return 0, ErrNoBars
	}
	high := math.Inf(-1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
	}
	return high, nil
}

// LastClose returns the close of the final bar.
func LastClose(bars []model.Bar) (float64, error) {
	if len(bars) == 0 {
		return 0, ErrNoBars
	}
	return bars[len(bars)-1].Close, nil
}
