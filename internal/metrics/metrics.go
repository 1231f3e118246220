// Package metrics instruments analyses with Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockLens/internal/collector"
	"StockLens/internal/model"
)

// Outcome labels of stocklens_analyses_total.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Metrics holds all Prometheus metrics for analysis runs.
type Metrics struct {
	AnalysesTotal   *prometheus.CounterVec // labels: outcome
	AnalyzeDuration prometheus.Histogram
	BarsFetched     prometheus.Counter
	IndicatorPoints prometheus.Counter
	LastClose       *prometheus.GaugeVec // labels: symbol (tracked only)

	reg *prometheus.Registry
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_analyses_total",
			Help: "Analysis runs by outcome",
		}, []string{"outcome"}),
		AnalyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stocklens_analyze_duration_seconds",
			Help:    "Fetch plus indicator compute latency",
			Buckets: prometheus.DefBuckets,
		}),
		BarsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stocklens_bars_fetched_total",
			Help: "Total bars returned by the data source",
		}),
		IndicatorPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stocklens_indicator_points_total",
			Help: "Total defined indicator values computed",
		}),
		LastClose: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stocklens_last_close",
			Help: "Latest close of each tracked symbol",
		}, []string{"symbol"}),
		reg: prometheus.NewRegistry(),
	}
	m.reg.MustRegister(
		m.AnalysesTotal,
		m.AnalyzeDuration,
		m.BarsFetched,
		m.IndicatorPoints,
		m.LastClose,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Outcome classifies an Analyze error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, collector.ErrSymbolNotFound), errors.Is(err, collector.ErrNoData):
		return OutcomeNotFound
	case errors.Is(err, collector.ErrInvalidPeriod), errors.Is(err, collector.ErrInvalidInterval),
		errors.Is(err, collector.ErrMalformedSeries):
		return OutcomeInvalid
	case errors.Is(err, collector.ErrRateLimited):
		return OutcomeRateLimited
	default:
		return OutcomeError
	}
}

// Analyzer produces an analysis for one symbol.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, period, interval string) (*model.Analysis, error)
}

// InstrumentedAnalyzer records every Analyze call of the wrapped Analyzer.
type InstrumentedAnalyzer struct {
	inner   Analyzer
	m       *Metrics
	tracked map[string]bool
}

// Instrument wraps an Analyzer. Only the tracked symbols get a
// stocklens_last_close series, so request paths cannot grow label cardinality.
func Instrument(inner Analyzer, m *Metrics, tracked ...string) *InstrumentedAnalyzer {
	ia := &InstrumentedAnalyzer{inner: inner, m: m, tracked: make(map[string]bool, len(tracked))}
	for _, sym := range tracked {
		ia.tracked[strings.ToUpper(strings.TrimSpace(sym))] = true
	}
	return ia
}

func (ia *InstrumentedAnalyzer) Analyze(ctx context.Context, symbol, period, interval string) (*model.Analysis, error) {
	start := time.Now()
	a, err := ia.inner.Analyze(ctx, symbol, period, interval)
	ia.m.AnalyzeDuration.Observe(time.Since(start).Seconds())
	ia.m.AnalysesTotal.WithLabelValues(Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	ia.m.BarsFetched.Add(float64(len(a.Bars)))
	defined := 0
	for _, nl := range a.Indicators {
		defined += len(nl.Line) - countUndefined(nl.Line)
	}
	ia.m.IndicatorPoints.Add(float64(defined))
	if len(a.Bars) > 0 && ia.tracked[a.Symbol] {
		ia.m.LastClose.WithLabelValues(a.Symbol).Set(a.LatestClose())
	}
	return a, nil
}

func countUndefined(l model.Line) int {
	n := 0
	for _, v := range l {
		if !v.Valid {
			n++
		}
	}
	return n
}
