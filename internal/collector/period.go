package collector

import (
	"fmt"
	"time"
)

// Supported intervals.
const (
	IntervalDaily  = "1d"
	IntervalWeekly = "1wk"
)

// periodDays maps each supported period to its approximate trading-day count.
var periodDays = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 21,
	"3mo": 63,
	"6mo": 126,
	"1y":  252,
	"2y":  504,
	"5y":  1260,
	"10y": 2520,
	"ytd": 252,
	"max": 10000,
}

// ValidatePeriod checks that period is one of the supported range strings.
func ValidatePeriod(period string) error {
	if _, ok := periodDays[period]; !ok {
		return fmt.Errorf("%w: %q (use 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)", ErrInvalidPeriod, period)
	}
	return nil
}

// ValidateInterval checks that interval is 1d or 1wk.
func ValidateInterval(interval string) error {
	if interval != IntervalDaily && interval != IntervalWeekly {
		return fmt.Errorf("%w: %q (use 1d or 1wk)", ErrInvalidInterval, interval)
	}
	return nil
}

// TradingDays returns the approximate number of daily bars in period.
func TradingDays(period string) int {
	return periodDays[period]
}

// PeriodStart returns the first calendar date covered by period when it ends
// on end. The "max" period has no start and returns the zero time.
func PeriodStart(period string, end time.Time) time.Time {
	switch period {
	case "1d":
		return end
	case "5d":
		return end.AddDate(0, 0, -7)
	case "1mo":
		return end.AddDate(0, -1, 0)
	case "3mo":
		return end.AddDate(0, -3, 0)
	case "6mo":
		return end.AddDate(0, -6, 0)
	case "1y":
		return end.AddDate(-1, 0, 0)
	case "2y":
		return end.AddDate(-2, 0, 0)
	case "5y":
		return end.AddDate(-5, 0, 0)
	case "10y":
		return end.AddDate(-10, 0, 0)
	case "ytd":
		return time.Date(end.Year(), 1, 1, 0, 0, 0, 0, end.Location())
	default:
		return time.Time{}
	}
}
