package mrp

import "github.com/shopspring/decimal"

// zeroSeries allocates a period series initialized to zero
func zeroSeries(n int) []decimal.Decimal {
	series := make([]decimal.Decimal, n)
	for i := range series {
		series[i] = decimal.Zero
	}
	return series
}
