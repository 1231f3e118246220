// Package chart renders analyses as interactive HTML pages with go-echarts.
package chart

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"StockLens/internal/model"
)

// gap is the echarts marker for a missing point.
const gap = "-"

// Options controls page layout.
type Options struct {
	Simple bool
	Width  string
	Height string
}

// DefaultOptions returns the full multi-panel layout.
func DefaultOptions() Options {
	return Options{Width: "1200px", Height: "420px"}
}

// RenderFile writes the chart page of a to path.
func RenderFile(path string, a *model.Analysis, o Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := Render(f, a, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render writes the chart page of a to w. Simple mode draws only the close
// line; the full page adds price overlays, volume, RSI and MACD panels.
func Render(w io.Writer, a *model.Analysis, o Options) error {
	if o.Width == "" {
		o.Width = DefaultOptions().Width
	}
	if o.Height == "" {
		o.Height = DefaultOptions().Height
	}
	dates := model.Dates(a.Bars)

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s stock analysis", a.Symbol)

	if o.Simple {
		page.AddCharts(closeChart(a, dates, o))
	} else {
		page.AddCharts(
			priceChart(a, dates, o),
			volumeChart(a, dates, o),
			rsiChart(a, dates, o),
			macdChart(a, dates, o),
		)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func globals(title string, o Options) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: o.Width, Height: o.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	}
}

func closeChart(a *model.Analysis, dates []string, o Options) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globals(fmt.Sprintf("%s close (%s)", a.Symbol, a.Period), o)...)
	closes := make([]opts.LineData, len(a.Bars))
	for i, b := range a.Bars {
		closes[i] = opts.LineData{Value: b.Close}
	}
	line.SetXAxis(dates).AddSeries("Close", closes)
	return line
}

func priceChart(a *model.Analysis, dates []string, o Options) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(globals(fmt.Sprintf("%s price (%s)", a.Symbol, a.Period), o)...)
	candles := make([]opts.KlineData, len(a.Bars))
	for i, b := range a.Bars {
		candles[i] = opts.KlineData{Value: []float64{b.Open, b.Close, b.Low, b.High}}
	}
	kline.SetXAxis(dates).AddSeries("OHLC", candles)

	overlay := charts.NewLine()
	overlay.SetXAxis(dates)
	for _, nl := range a.Indicators {
		if isPriceOverlay(nl.Name) {
			overlay.AddSeries(nl.Name, lineData(nl.Line))
		}
	}
	kline.Overlap(overlay)
	return kline
}

func isPriceOverlay(name string) bool {
	return strings.HasPrefix(name, "sma_") || strings.HasPrefix(name, "ema_") || strings.HasPrefix(name, "bb_")
}

func volumeChart(a *model.Analysis, dates []string, o Options) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globals("Volume", o)...)
	vols := make([]opts.BarData, len(a.Bars))
	for i, b := range a.Bars {
		vols[i] = opts.BarData{Value: b.Volume}
	}
	bar.SetXAxis(dates).AddSeries("Volume", vols)
	return bar
}

func rsiChart(a *model.Analysis, dates []string, o Options) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globals("RSI", o)...)
	line.SetXAxis(dates)
	rsi, ok := a.Indicators.Get(model.IndicatorRSI)
	if !ok {
		rsi = model.NewLine(len(a.Bars))
	}
	line.AddSeries("RSI", lineData(rsi),
		charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: "Overbought", YAxis: 70},
			opts.MarkLineNameYAxisItem{Name: "Oversold", YAxis: 30},
		),
	)
	return line
}

func macdChart(a *model.Analysis, dates []string, o Options) *charts.Bar {
	hist := charts.NewBar()
	hist.SetGlobalOptions(globals("MACD", o)...)
	h, _ := a.Indicators.Get(model.IndicatorMACDHistogram)
	hist.SetXAxis(dates).AddSeries("Histogram", barData(h, len(a.Bars)))

	lines := charts.NewLine()
	lines.SetXAxis(dates)
	for _, name := range []string{model.IndicatorMACD, model.IndicatorMACDSignal} {
		if l, ok := a.Indicators.Get(name); ok {
			lines.AddSeries(name, lineData(l))
		}
	}
	hist.Overlap(lines)
	return hist
}

func lineData(l model.Line) []opts.LineData {
	out := make([]opts.LineData, len(l))
	for i, v := range l {
		out[i] = opts.LineData{Value: point(v)}
	}
	return out
}

func barData(l model.Line, n int) []opts.BarData {
	out := make([]opts.BarData, n)
	for i := range out {
		var v model.Value
		if i < len(l) {
			v = l[i]
		}
		out[i] = opts.BarData{Value: point(v)}
	}
	return out
}

func point(v model.Value) any {
	if !v.Valid {
		return gap
	}
	return v.Float
}
