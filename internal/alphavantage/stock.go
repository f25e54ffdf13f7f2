package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"resty.dev/v3"

	"marketdownloader/internal/fetcher"
	"marketdownloader/internal/market"
)

// DefaultBaseURL is the production query endpoint
const DefaultBaseURL = "https://www.alphavantage.co/query"

// seriesPoint is one entry of an AlphaVantage time series
type seriesPoint struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// series maps an interval token to the API function and its interval argument
type series struct {
	function string
	interval string
}

var seriesByInterval = map[market.Interval]series{
	market.Interval1m:  {"TIME_SERIES_INTRADAY", "1min"},
	market.Interval5m:  {"TIME_SERIES_INTRADAY", "5min"},
	market.Interval15m: {"TIME_SERIES_INTRADAY", "15min"},
	market.Interval30m: {"TIME_SERIES_INTRADAY", "30min"},
	market.Interval60m: {"TIME_SERIES_INTRADAY", "60min"},
	market.Interval1h:  {"TIME_SERIES_INTRADAY", "60min"},
	market.Interval1d:  {"TIME_SERIES_DAILY", ""},
	market.Interval1wk: {"TIME_SERIES_WEEKLY", ""},
	market.Interval1mo: {"TIME_SERIES_MONTHLY", ""},
}

// StockProvider fetches OHLCV history from AlphaVantage
type StockProvider struct {
	apiKey string
	client *resty.Client
}

// NewStockProvider creates a new time series provider
func NewStockProvider(apiKey, baseURL string, timeout time.Duration) *StockProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &StockProvider{
		apiKey: apiKey,
		client: fetcher.NewHTTPClient(baseURL, timeout),
	}
}

// Name implements fetcher.Provider
func (p *StockProvider) Name() string { return "alphavantage" }

// Fetch retrieves the series matching params.Interval and trims it to
// params.Period counted back from the most recent bar.
func (p *StockProvider) Fetch(ctx context.Context, ticker string, params market.Params) (*market.Dataset, error) {
	s, ok := seriesByInterval[params.Interval]
	if !ok {
		return nil, &fetcher.FetchError{
			Kind:    fetcher.KindProvider,
			Message: fmt.Sprintf("interval %q is not supported by alphavantage", params.Interval),
		}
	}
	if !params.Period.Valid() {
		return nil, &fetcher.FetchError{
			Kind:    fetcher.KindProvider,
			Message: fmt.Sprintf("period %q is not supported by alphavantage", params.Period),
		}
	}

	query := map[string]string{
		"apikey":     p.apiKey,
		"function":   s.function,
		"symbol":     ticker,
		"outputsize": "full",
	}
	if s.interval != "" {
		query["interval"] = s.interval
	}

	var result map[string]json.RawMessage

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&result).
		Get("")

	if err := fetcher.CheckResponse(resp, err); err != nil {
		return nil, err
	}

	points, tz, err := decodeSeries(result)
	if err != nil {
		return nil, err
	}

	bars, err := toBars(points, tz)
	if err != nil {
		return nil, err
	}

	ds := &market.Dataset{Ticker: ticker, Params: params, Bars: bars}
	ds.SortByTime()
	ds.Bars = trim(ds.Bars, params.Period)
	return ds, nil
}

// decodeSeries finds the time series object in the response. AlphaVantage
// answers 200 for bad symbols and throttling, with the reason in a message field.
func decodeSeries(result map[string]json.RawMessage) (map[string]seriesPoint, string, error) {
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if raw, ok := result[key]; ok {
			var msg string
			_ = json.Unmarshal(raw, &msg)
			return nil, "", &fetcher.FetchError{Kind: fetcher.KindProvider, Message: msg}
		}
	}

	var tz string
	if raw, ok := result["Meta Data"]; ok {
		var meta map[string]string
		if err := json.Unmarshal(raw, &meta); err == nil {
			for k, v := range meta {
				if strings.HasSuffix(k, "Time Zone") {
					tz = v
				}
			}
		}
	}

	for key, raw := range result {
		if !strings.Contains(key, "Time Series") {
			continue
		}
		var points map[string]seriesPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			return nil, "", fmt.Errorf("failed to decode %s: %w", key, err)
		}
		return points, tz, nil
	}

	// A response with neither an error nor a series carries no rows.
	return nil, tz, nil
}

func toBars(points map[string]seriesPoint, tz string) ([]market.Bar, error) {
	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	bars := make([]market.Bar, 0, len(points))
	for stamp, pt := range points {
		t, err := parseStamp(stamp, loc)
		if err != nil {
			return nil, err
		}
		bar := market.Bar{Time: t}
		for _, f := range []struct {
			dst *float64
			src string
		}{
			{&bar.Open, pt.Open},
			{&bar.High, pt.High},
			{&bar.Low, pt.Low},
			{&bar.Close, pt.Close},
		} {
			if *f.dst, err = strconv.ParseFloat(f.src, 64); err != nil {
				return nil, fmt.Errorf("failed to parse price at %s: %w", stamp, err)
			}
		}
		if bar.Volume, err = strconv.ParseInt(pt.Volume, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse volume at %s: %w", stamp, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseStamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateTime, s, loc); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// trim keeps the bars that fall inside period, measured back from the last bar.
func trim(bars []market.Bar, period market.Period) []market.Bar {
	if len(bars) == 0 || period == market.PeriodMax {
		return bars
	}

	last := bars[len(bars)-1].Time
	var cutoff time.Time
	switch period {
	case market.Period1d:
		cutoff = last.AddDate(0, 0, -1)
	case market.Period5d:
		cutoff = last.AddDate(0, 0, -5)
	case market.Period1mo:
		cutoff = last.AddDate(0, -1, 0)
	case market.Period3mo:
		cutoff = last.AddDate(0, -3, 0)
	case market.Period6mo:
		cutoff = last.AddDate(0, -6, 0)
	case market.Period1y:
		cutoff = last.AddDate(-1, 0, 0)
	case market.Period2y:
		cutoff = last.AddDate(-2, 0, 0)
	case market.Period5y:
		cutoff = last.AddDate(-5, 0, 0)
	case market.Period10y:
		cutoff = last.AddDate(-10, 0, 0)
	case market.PeriodYTD:
		cutoff = time.Date(last.Year(), 1, 1, 0, 0, 0, 0, last.Location()).Add(-time.Nanosecond)
	default:
		return bars
	}

	for i, b := range bars {
		if b.Time.After(cutoff) {
			return bars[i:]
		}
	}
	return nil
}
