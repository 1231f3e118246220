package calculator

import "StockLens/internal/model"

// MACDResult holds the three MACD series, aligned to the input closes.
type MACDResult struct {
	MACD      model.Line
	Signal    model.Line
	Histogram model.Line
}

// MACD computes EMA(fast) - EMA(slow), its signal EMA and the histogram.
// The MACD line is defined from index slow-1, the signal and histogram from
// slow+signal-2. Invalid periods (non-positive or fast >= slow) leave every
// series undefined.
func MACD(closes []float64, fast, slow, signal int) MACDResult {
	n := len(closes)
	res := MACDResult{
		MACD:      model.NewLine(n),
		Signal:    model.NewLine(n),
		Histogram: model.NewLine(n),
	}
	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow || n < slow {
		return res
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	start := slow - 1
	macdValues := make([]float64, 0, n-start)
	for i := start; i < n; i++ {
		v := fastEMA[i].Float - slowEMA[i].Float
		res.MACD[i] = model.Some(v)
		macdValues = append(macdValues, v)
	}

	emaInto(res.Signal, start, macdValues, signal)
	for i := start; i < n; i++ {
		if res.Signal[i].Valid {
			res.Histogram[i] = model.Some(res.MACD[i].Float - res.Signal[i].Float)
		}
	}
	return res
}
