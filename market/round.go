package market

import "github.com/shopspring/decimal"

// Round rounds x half away from zero to the given decimal places.
func Round(x float64, places int32) float64 {
	v, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return v
}

// RoundVolume rounds a lot size to two decimals.
func RoundVolume(v float64) float64 {
	return Round(v, 2)
}
