package strategy

import "fmt"

// CapitalizationFilter gates tickers on market capitalization before any
// bar data is fetched. It fails open: only a known positive capitalization
// strictly below the threshold is rejected.
type CapitalizationFilter struct {
	MinMarketCap float64
}

// NewCapitalizationFilter creates a filter. A threshold <= 0 admits everything.
func NewCapitalizationFilter(minMarketCap float64) CapitalizationFilter {
	return CapitalizationFilter{MinMarketCap: minMarketCap}
}

// Admit decides whether a ticker proceeds. known reports whether the
// capitalization is usable for tagging results; zero counts as unknown.
func (f CapitalizationFilter) Admit(marketCap float64, reported bool) (admit, known bool) {
	known = reported && marketCap > 0
	if !known {
		return true, false
	}
	if f.MinMarketCap > 0 && marketCap < f.MinMarketCap {
		return false, true
	}
	return true, true
}

// Describe returns a short human-readable explanation of a rejection.
func (f CapitalizationFilter) Describe(marketCap float64) string {
	return fmt.Sprintf("market cap %.0f below threshold %.0f", marketCap, f.MinMarketCap)
}
