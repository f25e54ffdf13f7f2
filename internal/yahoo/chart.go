package yahoo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"
	_ "time/tzdata"

	"resty.dev/v3"

	"marketdownloader/internal/fetcher"
	"marketdownloader/internal/market"
)

// DefaultBaseURL is the production chart API host
const DefaultBaseURL = "https://query2.finance.yahoo.com"

// ChartResponse represents the Yahoo Finance v8 chart API response
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

// ChartError is the error object Yahoo embeds in chart responses
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartResult holds one symbol's series
type ChartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		Currency             string `json:"currency"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
		GMTOffset            int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
		Splits map[string]struct {
			Date        int64   `json:"date"`
			Numerator   float64 `json:"numerator"`
			Denominator float64 `json:"denominator"`
		} `json:"splits"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// ChartProvider fetches OHLCV history from the Yahoo Finance chart API
type ChartProvider struct {
	client *resty.Client
}

// NewChartProvider creates a new chart provider against baseURL
func NewChartProvider(baseURL string, timeout time.Duration) *ChartProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ChartProvider{
		client: fetcher.NewHTTPClient(baseURL, timeout),
	}
}

// Name implements fetcher.Provider
func (p *ChartProvider) Name() string { return "yahoo" }

// Fetch retrieves the ticker's history. Period and interval go to the API
// untouched as the range and interval query parameters.
func (p *ChartProvider) Fetch(ctx context.Context, ticker string, params market.Params) (*market.Dataset, error) {
	var result, apiErr ChartResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("symbol", ticker).
		SetQueryParams(map[string]string{
			"range":                string(params.Period),
			"interval":             string(params.Interval),
			"events":               "div,splits",
			"includeAdjustedClose": "false",
		}).
		SetResult(&result).
		SetError(&apiErr).
		Get("/v8/finance/chart/{symbol}")

	if err == nil && resp.IsError() {
		if chartErr := apiErr.Chart.Error; chartErr != nil && chartErr.Description != "" {
			return nil, &fetcher.FetchError{
				Kind:       fetcher.KindProvider,
				StatusCode: resp.StatusCode(),
				Message:    fmt.Sprintf("%s: %s", chartErr.Code, chartErr.Description),
			}
		}
	}
	if err := fetcher.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	if chartErr := result.Chart.Error; chartErr != nil && chartErr.Description != "" {
		return nil, &fetcher.FetchError{
			Kind:    fetcher.KindProvider,
			Message: fmt.Sprintf("%s: %s", chartErr.Code, chartErr.Description),
		}
	}

	ds := &market.Dataset{Ticker: ticker, Params: params}
	if len(result.Chart.Result) == 0 {
		return ds, nil
	}

	ds.Bars = toBars(result.Chart.Result[0])
	return ds, nil
}

// toBars zips the parallel quote arrays into bars, dropping rows Yahoo
// reports without a close, and folds dividend and split events into the
// bar they fall on.
func toBars(r ChartResult) []market.Bar {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]
	loc := location(r)

	bars := make([]market.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		closePx := at(q.Close, i)
		if closePx == nil {
			continue
		}
		bar := market.Bar{
			Time:  time.Unix(ts, 0).In(loc),
			Close: *closePx,
		}
		if v := at(q.Open, i); v != nil {
			bar.Open = *v
		}
		if v := at(q.High, i); v != nil {
			bar.High = *v
		}
		if v := at(q.Low, i); v != nil {
			bar.Low = *v
		}
		if v := at(q.Volume, i); v != nil {
			bar.Volume = *v
		}
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	for _, d := range r.Events.Dividends {
		if i := barIndex(bars, d.Date); i >= 0 {
			bars[i].Dividends += d.Amount
		}
	}
	for _, s := range r.Events.Splits {
		if s.Denominator == 0 {
			continue
		}
		if i := barIndex(bars, s.Date); i >= 0 {
			bars[i].StockSplits = s.Numerator / s.Denominator
		}
	}
	return bars
}

// barIndex returns the index of the last bar at or before unix time ts.
func barIndex(bars []market.Bar, ts int64) int {
	t := time.Unix(ts, 0)
	i := sort.Search(len(bars), func(i int) bool { return bars[i].Time.After(t) })
	return i - 1
}

func location(r ChartResult) *time.Location {
	if name := r.Meta.ExchangeTimezoneName; name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if r.Meta.GMTOffset != 0 {
		return time.FixedZone("GMT"+strconv.Itoa(r.Meta.GMTOffset/3600), r.Meta.GMTOffset)
	}
	return time.UTC
}

func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}
