package calculator

import (
	"errors"
	"math"

	"StockLens/internal/model"
)

// Trailing lookbacks in trading days.
const (
	Lookback52Week = 252
	Lookback30Day  = 22
)

// TrailingRange scans the most recent lookback bars and returns the high and low.
func TrailingRange(bars []model.Bar, lookback int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	if lookback <= 0 {
		return 0, 0, errors.New("lookback must be positive")
	}
	n := len(bars)
	start := n - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// RangePosition returns where the current price sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// Ranges computes the 52-week and 30-day ranges and the latest close's 52-week position.
func Ranges(bars []model.Bar) (model.RangeStats, error) {
	var rs model.RangeStats
	var err error
	if rs.High52w, rs.Low52w, err = TrailingRange(bars, Lookback52Week); err != nil {
		return rs, err
	}
	if rs.High30d, rs.Low30d, err = TrailingRange(bars, Lookback30Day); err != nil {
		return rs, err
	}
	if rs.Position52w, err = RangePosition(bars[len(bars)-1].Close, rs.High52w, rs.Low52w); err != nil {
		return rs, err
	}
	return rs, nil
}
