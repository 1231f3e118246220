package collector

import (
	"fmt"
	"sort"
	"time"

	"StockLens/internal/model"
)

// ValidateSeries checks that dates strictly increase and prices are positive.
func ValidateSeries(bars []model.Bar) error {
	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("%w: non-positive price on %s", ErrMalformedSeries, b.Date.Format(model.DateLayout))
		}
		if b.Volume < 0 {
			return fmt.Errorf("%w: negative volume on %s", ErrMalformedSeries, b.Date.Format(model.DateLayout))
		}
		if i > 0 && !b.Date.After(bars[i-1].Date) {
			return fmt.Errorf("%w: date %s does not follow %s", ErrMalformedSeries,
				b.Date.Format(model.DateLayout), bars[i-1].Date.Format(model.DateLayout))
		}
	}
	return nil
}

// normalizeBars sorts bars chronologically and keeps the last bar of each calendar date.
func normalizeBars(bars []model.Bar) []model.Bar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && sameDay(out[n-1].Date, b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// trimToPeriod drops bars older than the period window ending at the last bar.
func trimToPeriod(bars []model.Bar, period string) []model.Bar {
	if len(bars) == 0 {
		return bars
	}
	last := bars[len(bars)-1].Date
	if period == "1d" {
		return bars[len(bars)-1:]
	}
	start := PeriodStart(period, last)
	if start.IsZero() {
		return bars
	}
	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Date.Before(start) })
	return bars[i:]
}

// aggregateDailyToWeekly converts daily bars into weekly bars (Mon-Fri).
func aggregateDailyToWeekly(daily []model.Bar) []model.Bar {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.Bar
	week := daily[0]
	wy, ww := week.Date.ISOWeek()

	for _, d := range daily[1:] {
		y, w := d.Date.ISOWeek()
		if y != wy || w != ww {
			weekly = append(weekly, week)
			week = d
			wy, ww = y, w
			continue
		}
		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
	}
	return append(weekly, week)
}
