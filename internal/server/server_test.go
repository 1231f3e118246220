package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/exporter"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
	"StockLens/internal/server"
)

type mockAnalyzer struct {
	AnalyzeFunc func(ctx context.Context, symbol, period, interval string) (*model.Analysis, error)
}

func (m *mockAnalyzer) Analyze(ctx context.Context, symbol, period, interval string) (*model.Analysis, error) {
	return m.AnalyzeFunc(ctx, symbol, period, interval)
}

func newRouter(an server.Analyzer, rec recorder.Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return server.NewRouter(server.NewHandler(an, rec, "1y", "1d"), nil)
}

func get(r http.Handler, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newRouter(&mockAnalyzer{}, nil)

	w := get(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIndicators(t *testing.T) {
	col := collector.NewCollector(&collector.MockFetcher{Price: 50}, calculator.DefaultParams())
	var gotPeriod, gotInterval string
	an := &mockAnalyzer{AnalyzeFunc: func(ctx context.Context, symbol, period, interval string) (*model.Analysis, error) {
		gotPeriod, gotInterval = period, interval
		return col.Analyze(ctx, symbol, period, interval)
	}}
	r := newRouter(an, nil)

	w := get(r, "/indicators/aapl?period=3mo")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3mo", gotPeriod)
	assert.Equal(t, "1d", gotInterval)

	var doc exporter.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "AAPL", doc.Symbol)
	assert.Len(t, doc.Dates, collector.TradingDays("3mo"))
	sma := doc.Indicators["sma_20"]
	require.Len(t, sma, len(doc.Dates))
	assert.Equal(t, 19, sma.LeadingUndefined())
	assert.True(t, strings.Contains(w.Body.String(), `"sma_50":[null`))
}

func TestIndicatorsErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"symbol not found", collector.ErrSymbolNotFound, http.StatusNotFound},
		{"no data", collector.ErrNoData, http.StatusNotFound},
		{"invalid period", collector.ErrInvalidPeriod, http.StatusBadRequest},
		{"invalid interval", collector.ErrInvalidInterval, http.StatusBadRequest},
		{"rate limited", collector.ErrRateLimited, http.StatusTooManyRequests},
		{"upstream", fmt.Errorf("dial tcp: refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			an := &mockAnalyzer{AnalyzeFunc: func(context.Context, string, string, string) (*model.Analysis, error) {
				return nil, fmt.Errorf("fetch X bars: %w", tt.err)
			}}
			w := get(newRouter(an, nil), "/indicators/X")
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"fetch X bars:`)
		})
	}
}

func TestChart(t *testing.T) {
	col := collector.NewCollector(&collector.MockFetcher{Price: 50}, calculator.DefaultParams())
	r := newRouter(col, nil)

	w := get(r, "/chart/msft?period=1mo&simple=true")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "MSFT close (1mo)")
}

func TestLatestRun(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "srv.db"))
	require.NoError(t, err)
	defer rec.Close()

	col := collector.NewCollector(&collector.MockFetcher{Price: 50}, calculator.DefaultParams())
	r := newRouter(col, rec)

	w := get(r, "/runs/SPY/latest")
	assert.Equal(t, http.StatusNotFound, w.Code)

	a, err := col.Analyze(context.Background(), "SPY", "1mo", "1d")
	require.NoError(t, err)
	_, err = rec.RecordAnalysis(a)
	require.NoError(t, err)

	for _, path := range []string{"/runs/SPY/latest", "/runs/spy/latest", "/runs/Spy/latest"} {
		w = get(r, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `"symbol":"SPY"`, path)
	}
}

func TestMetricsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewMetrics()
	col := collector.NewCollector(&collector.MockFetcher{Price: 50}, calculator.DefaultParams())
	r := server.NewRouter(server.NewHandler(metrics.Instrument(col, m, "IBM"), nil, "1mo", "1d"), m.Handler())

	require.Equal(t, http.StatusOK, get(r, "/indicators/IBM").Code)
	require.Equal(t, http.StatusBadRequest, get(r, "/indicators/IBM?period=7w").Code)

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `stocklens_analyses_total{outcome="ok"} 1`)
	assert.Contains(t, w.Body.String(), `stocklens_analyses_total{outcome="invalid"} 1`)
	assert.Contains(t, w.Body.String(), `stocklens_last_close{symbol="IBM"}`)

	require.Equal(t, http.StatusOK, get(r, "/indicators/RANDOM123").Code)
	assert.NotContains(t, get(r, "/metrics").Body.String(), `symbol="RANDOM123"`)

	assert.Equal(t, http.StatusNotFound, get(newRouter(col, nil), "/metrics").Code)
}
