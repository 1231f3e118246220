package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"StockLens/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage TIME_SERIES_DAILY API.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
// An empty apiKey falls back to the public "demo" key.
func NewAlphaVantageFetcher(baseURL, apiKey, proxyURL string) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = alphaVantageBaseURL
	}
	if apiKey == "" {
		apiKey = "demo"
	}
	return &AlphaVantageFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avDaily is the expected JSON shape of a TIME_SERIES_DAILY response.
type avDaily struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	TimeSeries   map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

// FetchBars downloads daily bars and trims them to period. Weekly bars are
// aggregated from the daily series.
func (f *AlphaVantageFetcher) FetchBars(ctx context.Context, symbol, period, interval string) ([]model.Bar, error) {
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	if err := ValidateInterval(interval); err != nil {
		return nil, err
	}

	// compact covers the latest 100 trading days
	outputSize := "full"
	if TradingDays(period) <= 63 {
		outputSize = "compact"
	}
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", outputSize)
	q.Set("apikey", f.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var daily avDaily
	if err := json.NewDecoder(resp.Body).Decode(&daily); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	switch {
	case daily.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage %s: %w", symbol, ErrSymbolNotFound)
	case daily.Note != "":
		return nil, fmt.Errorf("alphavantage: %w: %s", ErrRateLimited, daily.Note)
	case daily.Information != "":
		return nil, fmt.Errorf("alphavantage: %w: %s", ErrRateLimited, daily.Information)
	case len(daily.TimeSeries) == 0:
		return nil, fmt.Errorf("alphavantage %s: %w", symbol, ErrNoData)
	}

	bars := make([]model.Bar, 0, len(daily.TimeSeries))
	for date, v := range daily.TimeSeries {
		bar, err := parseAVBar(date, v.Open, v.High, v.Low, v.Close, v.Volume)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	bars = trimToPeriod(normalizeBars(bars), period)
	if interval == IntervalWeekly {
		bars = aggregateDailyToWeekly(bars)
	}
	return bars, nil
}

func parseAVBar(date, open, high, low, closeStr, volume string) (model.Bar, error) {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	prices := make([]float64, 4)
	for i, s := range []string{open, high, low, closeStr} {
		if prices[i], err = strconv.ParseFloat(s, 64); err != nil {
			return model.Bar{}, fmt.Errorf("parse price %q on %s: %w", s, date, err)
		}
	}
	vol, err := strconv.ParseInt(volume, 10, 64)
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse volume %q on %s: %w", volume, date, err)
	}
	return model.Bar{
		Date:   d,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: vol,
	}, nil
}
