// Package analytics computes summary statistics over a trade batch:
// volume-weighted average price and price dispersion, the natural
// analytics a trade log invites beyond the flat row export in
// internal/snapshot.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"matchcore/internal/domain"
)

// VWAP returns the volume-weighted average price of trades: the sum of
// price*size divided by the sum of size. An empty batch returns 0.
func VWAP(list []domain.Trade) float64 {
	if len(list) == 0 {
		return 0
	}
	prices := make([]float64, len(list))
	weights := make([]float64, len(list))
	for i, t := range list {
		prices[i] = t.Price
		weights[i] = t.Size
	}
	return stat.Mean(prices, weights)
}

// PriceStdDev returns the size-weighted population standard deviation
// of trade prices. An empty or single-trade batch returns 0.
func PriceStdDev(list []domain.Trade) float64 {
	if len(list) < 2 {
		return 0
	}
	prices := make([]float64, len(list))
	weights := make([]float64, len(list))
	for i, t := range list {
		prices[i] = t.Price
		weights[i] = t.Size
	}
	mean := stat.Mean(prices, weights)
	var sumSq, sumW float64
	for i, p := range prices {
		sumSq += weights[i] * (p - mean) * (p - mean)
		sumW += weights[i]
	}
	return math.Sqrt(sumSq / sumW)
}
