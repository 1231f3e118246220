package calculator

import "StockLens/internal/model"

// SMA computes the simple moving average of closes over the trailing period.
// The first period-1 positions are undefined.
func SMA(closes []float64, period int) model.Line {
	out := model.NewLine(len(closes))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(closes); i++ {
		out[i] = model.Some(mean(closes[i-period+1 : i+1]))
	}
	return out
}

// EMA computes the exponential moving average with smoothing factor 2/(period+1).
// The series is seeded with the SMA of the first period closes, so the first
// defined value sits at index period-1.
func EMA(closes []float64, period int) model.Line {
	out := model.NewLine(len(closes))
	emaInto(out, 0, closes, period)
	return out
}

// emaInto writes the SMA-seeded EMA of values into out starting at offset.
func emaInto(out model.Line, offset int, values []float64, period int) {
	if period <= 0 || len(values) < period {
		return
	}
	alpha := 2.0 / float64(period+1)
	ema := mean(values[:period])
	out[offset+period-1] = model.Some(ema)
	for i := period; i < len(values); i++ {
		ema = alpha*values[i] + (1-alpha)*ema
		out[offset+i] = model.Some(ema)
	}
}

func mean(window []float64) float64 {
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}
