package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func sampleAnalysis() *model.Analysis {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []model.Bar{
		{Date: day, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Date: day.AddDate(0, 0, 1), Open: 10.5, High: 12, Low: 10, Close: 11.5, Volume: 200},
		{Date: day.AddDate(0, 0, 2), Open: 11.5, High: 13, Low: 11, Close: 12.5, Volume: 300},
	}
	return &model.Analysis{
		Symbol:   "AAPL",
		Period:   "1mo",
		Interval: "1d",
		Bars:     bars,
		Indicators: model.IndicatorSet{
			{Name: "sma_2", Line: model.Line{model.None, model.Some(11), model.Some(12)}},
			{Name: model.IndicatorRSI, Line: model.Line{model.None, model.None, model.Some(100)}},
		},
	}
}

func TestNewFormats(t *testing.T) {
	for _, f := range Formats {
		e, err := New(f)
		require.NoError(t, err, f)
		assert.Equal(t, f, e.Extension())
	}
	_, err := New("xlsx")
	assert.Error(t, err)
}

func TestForPath(t *testing.T) {
	e, err := ForPath("out/aapl.csv", "")
	require.NoError(t, err)
	assert.Equal(t, "csv", e.Extension())

	e, err = ForPath("out/aapl.dat", "parquet")
	require.NoError(t, err)
	assert.Equal(t, "parquet", e.Extension())

	e, err = ForPath("out/aapl", "")
	require.NoError(t, err)
	assert.Equal(t, "json", e.Extension())
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "aapl_data.json"), DefaultPath("out", "AAPL", JSONExporter{}))
}

func TestJSONExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aapl.json")
	require.NoError(t, JSONExporter{}.Export(sampleAnalysis(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "AAPL", generic["symbol"])
	assert.Equal(t, "1mo", generic["period"])
	assert.Equal(t, []any{"2024-01-02", "2024-01-03", "2024-01-04"}, generic["dates"])

	indicators := generic["indicators"].(map[string]any)
	assert.Equal(t, []any{nil, 11.0, 12.0}, indicators["sma_2"])
	assert.Equal(t, []any{nil, nil, 100.0}, indicators["rsi"])

	prices := generic["prices"].(map[string]any)
	assert.Equal(t, []any{100.0, 200.0, 300.0}, prices["volume"])

	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, model.Line{model.None, model.Some(11), model.Some(12)}, doc.Indicators["sma_2"])
}

func TestJSONEmptyAnalysisEncodesArrays(t *testing.T) {
	a := &model.Analysis{Symbol: "X", Indicators: model.IndicatorSet{{Name: "sma_20", Line: model.NewLine(0)}}}
	raw, err := json.Marshal(NewDocument(a))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"dates":[]`)
	assert.Contains(t, string(raw), `"close":[]`)
	assert.Contains(t, string(raw), `"sma_20":[]`)
}

func TestCSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aapl.csv")
	require.NoError(t, CSVExporter{}.Export(sampleAnalysis(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, []string{"date", "open", "high", "low", "close", "volume", "sma_2", "rsi"}, records[0])
	assert.Equal(t, []string{"2024-01-02", "10", "11", "9", "10.5", "100", "", ""}, records[1])
	assert.Equal(t, []string{"2024-01-04", "11.5", "13", "11", "12.5", "300", "12", "100"}, records[3])
}

func TestParquetRows(t *testing.T) {
	rows := ParquetRows(sampleAnalysis())
	require.Len(t, rows, 3*7)

	first := rows[5]
	assert.Equal(t, "sma_2", first.Series)
	assert.Equal(t, "2024-01-02", first.Date)
	assert.Nil(t, first.Value)

	last := rows[len(rows)-1]
	assert.Equal(t, "rsi", last.Series)
	require.NotNil(t, last.Value)
	assert.Equal(t, 100.0, *last.Value)
}

func TestParquetExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aapl.parquet")
	require.NoError(t, ParquetExporter{}.Export(sampleAnalysis(), path))

	rows, err := parquet.ReadFile[ParquetRow](path)
	require.NoError(t, err)
	assert.Equal(t, ParquetRows(sampleAnalysis()), rows)
}
