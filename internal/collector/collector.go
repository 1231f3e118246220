package collector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.Bar
	Err   error
	Start time.Time // first generated date; defaults to 2024-01-01
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _, period, interval string) ([]model.Bar, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	start := m.Start
	if start.IsZero() {
		start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	step := 1
	if interval == IntervalWeekly {
		step = 7
	}
	return generateMockBars(m.Price, TradingDays(period), start, step), nil
}

func generateMockBars(basePrice float64, count int, start time.Time, stepDays int) []model.Bar {
	if count > 2520 {
		count = 2520
	}
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i*stepDays),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Params  calculator.Params
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, params calculator.Params) *Collector {
	return &Collector{Fetcher: fetcher, Params: params, Now: time.Now}
}

// Analyze fetches bars for symbol and computes all indicators.
func (c *Collector) Analyze(ctx context.Context, symbol, period, interval string) (*model.Analysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrSymbolNotFound)
	}
	bars, err := c.Fetcher.FetchBars(ctx, symbol, period, interval)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, ErrNoData)
	}
	if err := ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, err)
	}

	// private copy; the fetcher may hand out shared slices (cache, mock)
	owned := make([]model.Bar, len(bars))
	copy(owned, bars)

	a := &model.Analysis{
		Symbol:     symbol,
		Period:     period,
		Interval:   interval,
		Source:     c.Fetcher.Name(),
		Bars:       owned,
		Indicators: calculator.Compute(owned, c.Params),
		ComputedAt: c.Now(),
	}
	if rs, err := calculator.Ranges(owned); err != nil {
		log.Printf("[WARN] range calculation failed for %s: %v", symbol, err)
	} else {
		a.Ranges = rs
	}
	return a, nil
}
