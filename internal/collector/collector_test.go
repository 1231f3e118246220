package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

func TestCollector_Analyze(t *testing.T) {
	fetcher := &MockFetcher{Price: 100}
	col := NewCollector(fetcher, calculator.DefaultParams())
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	col.Now = func() time.Time { return fixed }

	a, err := col.Analyze(context.Background(), " aapl ", "6mo", IntervalDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Symbol != "AAPL" {
		t.Errorf("expected normalized symbol AAPL, got %q", a.Symbol)
	}
	if len(a.Bars) != 126 {
		t.Errorf("expected 126 bars, got %d", len(a.Bars))
	}
	if a.Source != "mock" || !a.ComputedAt.Equal(fixed) {
		t.Errorf("unexpected metadata: %+v", a)
	}
	for _, nl := range a.Indicators {
		if len(nl.Line) != len(a.Bars) {
			t.Errorf("%s: length %d, want %d", nl.Name, len(nl.Line), len(a.Bars))
		}
	}
	if a.Ranges.High52w <= a.Ranges.Low52w {
		t.Errorf("expected a non-empty 52-week range, got %+v", a.Ranges)
	}
}

func TestCollector_AnalyzeOwnsBars(t *testing.T) {
	bars := generateMockBars(50, 30, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)
	col := NewCollector(&MockFetcher{Bars: bars}, calculator.DefaultParams())

	a, err := col.Analyze(context.Background(), "MSFT", "1mo", IntervalDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bars[0].Close = -1
	if a.Bars[0].Close == -1 {
		t.Error("analysis shares the fetcher's slice")
	}
}

func TestCollector_Errors(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		fetcher *MockFetcher
		symbol  string
		wantErr error
	}{
		{"fetch failure", &MockFetcher{Err: ErrRateLimited}, "AAPL", ErrRateLimited},
		{"empty result", &MockFetcher{Bars: []model.Bar{}}, "AAPL", ErrNoData},
		{"empty symbol", &MockFetcher{Price: 10}, "  ", ErrSymbolNotFound},
		{"non monotonic", &MockFetcher{Bars: []model.Bar{
			{Date: day, Open: 1, High: 1, Low: 1, Close: 1},
			{Date: day, Open: 1, High: 1, Low: 1, Close: 1},
		}}, "AAPL", ErrMalformedSeries},
		{"negative price", &MockFetcher{Bars: []model.Bar{
			{Date: day, Open: 1, High: 1, Low: 1, Close: -5},
		}}, "AAPL", ErrMalformedSeries},
	}
	for _, tt := range tests {
		col := NewCollector(tt.fetcher, calculator.DefaultParams())
		_, err := col.Analyze(context.Background(), tt.symbol, "1mo", IntervalDaily)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestMockFetcher_Weekly(t *testing.T) {
	m := &MockFetcher{Price: 10}
	bars, err := m.FetchBars(context.Background(), "X", "3mo", IntervalWeekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bars[1].Date.Sub(bars[0].Date); got != 7*24*time.Hour {
		t.Errorf("expected weekly spacing, got %v", got)
	}
	if m.Calls != 1 {
		t.Errorf("expected 1 call, got %d", m.Calls)
	}
}
