// Package report formats analyses for the terminal and for Telegram.
package report

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

// Summary renders the plain-text CLI summary of a.
func Summary(a *model.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Latest %s Price: $%.2f\n", a.Symbol, a.LatestClose())
	fmt.Fprintf(&b, "Data points: %d\n", len(a.Bars))
	fmt.Fprintf(&b, "Date range: %s\n", dateRange(a.Bars))

	if len(a.Indicators) > 0 {
		b.WriteString("Indicators:\n")
		for _, nl := range a.Indicators {
			fmt.Fprintf(&b, "  %-15s %s\n", nl.Name+":", nl.Line.Last())
		}
	}
	if a.Ranges.High52w > 0 {
		fmt.Fprintf(&b, "52-week range: %.2f - %.2f (position %.0f%%)\n",
			a.Ranges.Low52w, a.Ranges.High52w, a.Ranges.Position52w*100)
	}
	return b.String()
}

// SummaryHTML renders the Telegram variant of Summary.
func SummaryHTML(a *model.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b> | %s %s\n\n", html.EscapeString(a.Symbol), html.EscapeString(a.Period), html.EscapeString(a.Interval))
	fmt.Fprintf(&b, "Price: %.2f\n", a.LatestClose())
	fmt.Fprintf(&b, "Bars: %d (%s)\n", len(a.Bars), dateRange(a.Bars))

	if len(a.Indicators) > 0 {
		b.WriteString("\n📈 <b>Indicators</b>\n")
		for _, nl := range a.Indicators {
			fmt.Fprintf(&b, "  %s: %s\n", nl.Name, nl.Line.Last())
		}
	}
	if rsi, ok := a.Indicators.Get(model.IndicatorRSI); ok {
		if zone := RSIZone(rsi.Last()); zone != "" {
			fmt.Fprintf(&b, "\n⚠️ RSI %s\n", zone)
		}
	}
	if a.Ranges.High52w > 0 {
		fmt.Fprintf(&b, "\n52w: %.2f ~ %.2f (%.0f%%)\n", a.Ranges.Low52w, a.Ranges.High52w, a.Ranges.Position52w*100)
	}
	return b.String()
}

// RSIZone labels a reading above 70 as overbought and below 30 as oversold.
func RSIZone(v model.Value) string {
	switch {
	case !v.Valid:
		return ""
	case v.Float >= 70:
		return "overbought"
	case v.Float <= 30:
		return "oversold"
	}
	return ""
}

// FormatRun renders a stored run for the /last command.
func FormatRun(run *recorder.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗂 <b>%s</b> | %s\n\n", html.EscapeString(run.Symbol), run.ComputedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Period: %s %s (%s)\n", run.Period, run.Interval, run.Source)
	fmt.Fprintf(&b, "Bars: %d (%s to %s)\n", run.BarCount, run.FirstDate, run.LastDate)
	fmt.Fprintf(&b, "Close: %.2f\n", run.LatestClose)

	names := make([]string, 0, len(run.Latest))
	for name := range run.Latest {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s\n", name, run.Latest[name])
	}
	return b.String()
}

func dateRange(bars []model.Bar) string {
	if len(bars) == 0 {
		return "n/a"
	}
	return bars[0].Date.Format(model.DateLayout) + " to " + bars[len(bars)-1].Date.Format(model.DateLayout)
}
