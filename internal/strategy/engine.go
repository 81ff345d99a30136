package strategy

import (
	"BreakoutScanner/internal/calculator"
	"BreakoutScanner/internal/model"
)

// IsBreakout reports whether price strictly exceeds both reference highs.
func IsBreakout(price, prevIBHigh, overnightHigh float64) bool {
	return price > prevIBHigh && price > overnightHigh
}

// failedLeg names the leg(s) a non-breakout price did not clear.
func failedLeg(price, prevIBHigh, overnightHigh float64) model.FailedLeg {
	ib := price <= prevIBHigh
	on := price <= overnightHigh
	switch {
	case ib && on:
		return model.LegBoth
	case ib:
		return model.LegInitialBalance
	default:
		return model.LegOvernight
	}
}

// Evaluate applies the breakout rule to a snapshot. Exactly one of the two
// return values is non-nil. Comparisons use full precision; rounding happens
// only while building the output records.
func Evaluate(snap *model.TickerSnapshot) (*model.BreakoutResult, *model.NonMatch) {
	price, ib, on := snap.CurrentPrice, snap.PrevInitialBalanceHigh, snap.OvernightHigh

	if !IsBreakout(price, ib, on) {
		return nil, &model.NonMatch{
			Ticker:                 snap.Ticker,
			Price:                  calculator.Round2(price),
			PrevInitialBalanceHigh: calculator.Round2(ib),
			OvernightHigh:          calculator.Round2(on),
			FailedLeg:              failedLeg(price, ib, on),
		}
	}

	return &model.BreakoutResult{
		Ticker:                 snap.Ticker,
		Price:                  calculator.Round2(price),
		PrevInitialBalanceHigh: calculator.Round2(ib),
		OvernightHigh:          calculator.Round2(on),
		BreakoutPercent:        calculator.Round2(calculator.PercentChange(ib, price)),
		MarketCap:              snap.MarketCap,
		MarketCapKnown:         snap.MarketCapKnown,
	}, nil
}
