package model

import "time"

// Indicator names shared by the exporter, renderer and recorder.
const (
	IndicatorRSI           = "rsi"
	IndicatorMACD          = "macd"
	IndicatorMACDSignal    = "macd_signal"
	IndicatorMACDHistogram = "macd_histogram"
	IndicatorBBUpper       = "bb_upper"
	IndicatorBBMiddle      = "bb_middle"
	IndicatorBBLower       = "bb_lower"
)

// NamedLine pairs an indicator name with its series.
type NamedLine struct {
	Name string
	Line Line
}

// IndicatorSet is an ordered collection of indicator series.
type IndicatorSet []NamedLine

// Get looks up a series by name.
func (s IndicatorSet) Get(name string) (Line, bool) {
	for _, nl := range s {
		if nl.Name == name {
			return nl.Line, true
		}
	}
	return nil, false
}

// Names lists indicator names in insertion order.
func (s IndicatorSet) Names() []string {
	names := make([]string, len(s))
	for i, nl := range s {
		names[i] = nl.Name
	}
	return names
}

// RangeStats holds trailing high/low ranges of the series.
type RangeStats struct {
	High52w     float64
	Low52w      float64
	High30d     float64
	Low30d      float64
	Position52w float64 // 0.0 ~ 1.0
}

// Analysis is the result of one fetch-and-compute run for a symbol.
type Analysis struct {
	Symbol     string
	Period     string
	Interval   string
	Source     string
	Bars       []Bar
	Indicators IndicatorSet
	Ranges     RangeStats
	ComputedAt time.Time
}

// LatestClose returns the most recent close, or 0 when there are no bars.
func (a *Analysis) LatestClose() float64 {
	if len(a.Bars) == 0 {
		return 0
	}
	return a.Bars[len(a.Bars)-1].Close
}
