// Package exporter writes analyses to JSON, CSV or Parquet files.
package exporter

import (
	"fmt"
	"path/filepath"
	"strings"

	"StockLens/internal/model"
)

// Exporter persists one analysis to a file.
type Exporter interface {
	Export(a *model.Analysis, path string) error
	Extension() string
}

// Formats lists the supported export formats.
var Formats = []string{"json", "csv", "parquet"}

// New creates an Exporter by format.
func New(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONExporter{}, nil
	case "csv":
		return CSVExporter{}, nil
	case "parquet":
		return ParquetExporter{}, nil
	default:
		return nil, fmt.Errorf("exporter: unsupported format %q (use: %s)", format, strings.Join(Formats, ", "))
	}
}

// ForPath picks the exporter from format, or from the path extension when
// format is empty.
func ForPath(path, format string) (Exporter, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	if format == "" {
		format = "json"
	}
	return New(format)
}

// DefaultPath returns "<symbol>_data.<ext>" in dir.
func DefaultPath(dir, symbol string, e Exporter) string {
	return filepath.Join(dir, fmt.Sprintf("%s_data.%s", strings.ToLower(symbol), e.Extension()))
}
