package exporter

import (
	"encoding/json"
	"io"
	"os"

	"StockLens/internal/model"
)

// Document is the JSON export shape: parallel arrays on a shared date axis,
// null where an indicator is undefined.
type Document struct {
	Symbol     string                `json:"symbol"`
	Period     string                `json:"period"`
	Interval   string                `json:"interval"`
	Dates      []string              `json:"dates"`
	Prices     Prices                `json:"prices"`
	Indicators map[string]model.Line `json:"indicators"`
}

// Prices holds the OHLCV columns.
type Prices struct {
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []int64   `json:"volume"`
}

// NewDocument builds the export document of a.
func NewDocument(a *model.Analysis) Document {
	n := len(a.Bars)
	doc := Document{
		Symbol:   a.Symbol,
		Period:   a.Period,
		Interval: a.Interval,
		Dates:    model.Dates(a.Bars),
		Prices: Prices{
			Open:   make([]float64, n),
			High:   make([]float64, n),
			Low:    make([]float64, n),
			Close:  make([]float64, n),
			Volume: make([]int64, n),
		},
		Indicators: make(map[string]model.Line, len(a.Indicators)),
	}
	for i, b := range a.Bars {
		doc.Prices.Open[i] = b.Open
		doc.Prices.High[i] = b.High
		doc.Prices.Low[i] = b.Low
		doc.Prices.Close[i] = b.Close
		doc.Prices.Volume[i] = b.Volume
	}
	for _, nl := range a.Indicators {
		line := nl.Line
		if line == nil {
			line = model.Line{}
		}
		doc.Indicators[nl.Name] = line
	}
	return doc
}

// WriteJSON encodes the document of a to w, indented.
func WriteJSON(w io.Writer, a *model.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(a))
}

// JSONExporter writes the export document as indented JSON.
type JSONExporter struct{}

func (JSONExporter) Extension() string { return "json" }

func (JSONExporter) Export(a *model.Analysis, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, a); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
