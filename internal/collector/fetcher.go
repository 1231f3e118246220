package collector

import (
	"context"
	"errors"

	"StockLens/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchBars returns bars for symbol covering period (1mo, 6mo, 1y, ...)
	// at the given interval (1d or 1wk), oldest first.
	FetchBars(ctx context.Context, symbol, period, interval string) ([]model.Bar, error)
	Name() string
}

var (
	ErrNoData          = errors.New("no data returned")
	ErrSymbolNotFound  = errors.New("symbol not found")
	ErrRateLimited     = errors.New("rate limited by data provider")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrMalformedSeries = errors.New("malformed bar series")
)
