package exporter

import (
	"encoding/csv"
	"os"
	"strconv"

	"StockLens/internal/model"
)

// CSVExporter writes one row per bar (header: date,open,high,low,close,volume,<indicators>).
// Undefined indicator values are empty cells.
type CSVExporter struct{}

func (CSVExporter) Extension() string { return "csv" }

func (CSVExporter) Export(a *model.Analysis, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	header := append([]string{"date", "open", "high", "low", "close", "volume"}, a.Indicators.Names()...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, b := range a.Bars {
		row := make([]string, 0, len(header))
		row = append(row,
			b.Date.Format(model.DateLayout),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			strconv.FormatInt(b.Volume, 10),
		)
		for _, nl := range a.Indicators {
			cell := ""
			if i < len(nl.Line) && nl.Line[i].Valid {
				cell = floatStr(nl.Line[i].Float)
			}
			row = append(row, cell)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
