package model

import "time"

// DateLayout is the calendar date format used on every date axis.
const DateLayout = "2006-01-02"

// Bar represents a single daily (or weekly) OHLCV bar.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Closes extracts the closing prices of bars, oldest first.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Dates formats the date axis of bars.
func Dates(bars []Bar) []string {
	dates := make([]string, len(bars))
	for i, b := range bars {
		dates[i] = b.Date.Format(DateLayout)
	}
	return dates
}
