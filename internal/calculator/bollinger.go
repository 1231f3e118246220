package calculator

import (
	"math"

	"StockLens/internal/model"
)

// BollingerResult holds the band series and the rolling standard deviation.
type BollingerResult struct {
	Upper  model.Line
	Middle model.Line
	Lower  model.Line
	StdDev model.Line
}

// Bollinger computes SMA(period) ± k·σ, where σ is the population standard
// deviation over the same trailing window as the SMA.
func Bollinger(closes []float64, period int, k float64) BollingerResult {
	n := len(closes)
	res := BollingerResult{
		Upper:  model.NewLine(n),
		Middle: model.NewLine(n),
		Lower:  model.NewLine(n),
		StdDev: model.NewLine(n),
	}
	if period <= 0 {
		return res
	}
	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]
		mid := mean(window)
		variance := 0.0
		for _, c := range window {
			d := c - mid
			variance += d * d
		}
		sigma := math.Sqrt(variance / float64(period))

		res.Middle[i] = model.Some(mid)
		res.StdDev[i] = model.Some(sigma)
		res.Upper[i] = model.Some(mid + k*sigma)
		res.Lower[i] = model.Some(mid - k*sigma)
	}
	return res
}
