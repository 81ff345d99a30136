package calculator

import "github.com/shopspring/decimal"

// Round2 rounds v to two decimal places, half to even.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(2).Float64()
	return f
}

// PercentChange returns (to/from - 1) * 100. from must be non-zero.
func PercentChange(from, to float64) float64 {
	return (to/from - 1) * 100
}
