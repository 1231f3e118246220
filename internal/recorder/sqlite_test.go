package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"StockLens/internal/model"
)

func testAnalysis(symbol string, computed time.Time) *model.Analysis {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.Analysis{
		Symbol:   symbol,
		Period:   "1mo",
		Interval: "1d",
		Source:   "mock",
		Bars: []model.Bar{
			{Date: day, Open: 1, High: 2, Low: 1, Close: 1.5, Volume: 10},
			{Date: day.AddDate(0, 0, 1), Open: 1.5, High: 2.5, Low: 1.2, Close: 2, Volume: 20},
		},
		Indicators: model.IndicatorSet{
			{Name: "sma_2", Line: model.Line{model.None, model.Some(1.75)}},
			{Name: "rsi", Line: model.Line{model.None, model.None}},
		},
		Ranges:     model.RangeStats{High52w: 2.5, Low52w: 1, Position52w: 0.6667},
		ComputedAt: computed,
	}
}

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordAndLatestRun(t *testing.T) {
	r := openTestRecorder(t)
	base := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	if _, err := r.RecordAnalysis(testAnalysis("AAPL", base)); err != nil {
		t.Fatalf("record: %v", err)
	}
	id, err := r.RecordAnalysis(testAnalysis("AAPL", base.Add(time.Hour)))
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	run, err := r.LatestRun("AAPL")
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if run.ID != id {
		t.Errorf("run id = %d, want %d", run.ID, id)
	}
	if run.BarCount != 2 || run.FirstDate != "2024-03-01" || run.LastDate != "2024-03-02" {
		t.Errorf("unexpected run header: %+v", run)
	}
	if run.LatestClose != 2 {
		t.Errorf("latest close = %v, want 2", run.LatestClose)
	}
	if v := run.Latest["sma_2"]; !v.Valid || v.Float != 1.75 {
		t.Errorf("sma_2 = %+v, want 1.75", v)
	}
	v, ok := run.Latest["rsi"]
	if !ok {
		t.Fatal("rsi point missing")
	}
	if v.Valid {
		t.Errorf("rsi should be stored as NULL, got %v", v.Float)
	}
}

func TestLatestRunUnknownSymbol(t *testing.T) {
	r := openTestRecorder(t)
	if _, err := r.LatestRun("MSFT"); !errors.Is(err, ErrNoRuns) {
		t.Errorf("err = %v, want ErrNoRuns", err)
	}
}

func TestRecordEmptyAnalysis(t *testing.T) {
	r := openTestRecorder(t)
	a := &model.Analysis{Symbol: "EMPTY"}
	if _, err := r.RecordAnalysis(a); err != nil {
		t.Fatalf("record: %v", err)
	}
	run, err := r.LatestRun("EMPTY")
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if run.BarCount != 0 || len(run.Latest) != 0 {
		t.Errorf("unexpected run: %+v", run)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if _, err := r.RecordAnalysis(testAnalysis("AAPL", time.Now())); err != nil {
		t.Errorf("record: %v", err)
	}
	if _, err := r.LatestRun("AAPL"); !errors.Is(err, ErrNoRuns) {
		t.Errorf("err = %v, want ErrNoRuns", err)
	}
}
