package exporter

import (
	"github.com/parquet-go/parquet-go"

	"StockLens/internal/model"
)

// ParquetRow is one (date, series) observation of the long-format Parquet
// export. Series covers the OHLCV columns and every indicator.
type ParquetRow struct {
	Symbol string   `parquet:"symbol"`
	Date   string   `parquet:"date"`
	Series string   `parquet:"series"`
	Value  *float64 `parquet:"value,optional"`
}

// ParquetExporter writes the analysis in long format; undefined values are null.
type ParquetExporter struct{}

func (ParquetExporter) Extension() string { return "parquet" }

func (ParquetExporter) Export(a *model.Analysis, path string) error {
	return parquet.WriteFile(path, ParquetRows(a))
}

// ParquetRows flattens a into long-format rows, bar by bar.
func ParquetRows(a *model.Analysis) []ParquetRow {
	rows := make([]ParquetRow, 0, len(a.Bars)*(5+len(a.Indicators)))
	for i, b := range a.Bars {
		date := b.Date.Format(model.DateLayout)
		add := func(series string, v model.Value) {
			row := ParquetRow{Symbol: a.Symbol, Date: date, Series: series}
			if v.Valid {
				f := v.Float
				row.Value = &f
			}
			rows = append(rows, row)
		}
		add("open", model.Some(b.Open))
		add("high", model.Some(b.High))
		add("low", model.Some(b.Low))
		add("close", model.Some(b.Close))
		add("volume", model.Some(float64(b.Volume)))
		for _, nl := range a.Indicators {
			v := model.None
			if i < len(nl.Line) {
				v = nl.Line[i]
			}
			add(nl.Name, v)
		}
	}
	return rows
}
