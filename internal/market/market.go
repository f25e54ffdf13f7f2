// Package market holds the provider-neutral shapes that flow through the
// downloader: request tokens and the time-indexed OHLCV dataset.
package market

import (
	"slices"
	"time"
)

// Period is a provider token naming how far back to fetch.
type Period string

// Interval is a provider token naming the sampling granularity.
type Interval string

// Period tokens, passed through to providers verbatim.
const (
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
	Period10y Period = "10y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"
)

// Interval tokens, passed through to providers verbatim.
const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval60m Interval = "60m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
	Interval3mo Interval = "3mo"
)

// Periods lists every recognized period token in canonical order.
var Periods = []Period{
	Period1d, Period5d, Period1mo, Period3mo, Period6mo,
	Period1y, Period2y, Period5y, Period10y, PeriodYTD, PeriodMax,
}

// Intervals lists every recognized interval token in canonical order.
var Intervals = []Interval{
	Interval1m, Interval5m, Interval15m, Interval30m, Interval60m,
	Interval1h, Interval1d, Interval1wk, Interval1mo, Interval3mo,
}

// Valid reports whether p is a recognized period token.
func (p Period) Valid() bool { return slices.Contains(Periods, p) }

// Valid reports whether i is a recognized interval token.
func (i Interval) Valid() bool { return slices.Contains(Intervals, i) }

// Params are the shared fetch parameters of a request or batch.
type Params struct {
	Period   Period
	Interval Interval
}

// DefaultParams matches the downloader defaults: one year of daily bars.
func DefaultParams() Params {
	return Params{Period: Period1y, Interval: Interval1d}
}

// Column names of a dataset, in file order. IndexColumn is the time index.
const (
	IndexColumn       = "Date"
	ColumnOpen        = "Open"
	ColumnHigh        = "High"
	ColumnLow         = "Low"
	ColumnClose       = "Close"
	ColumnVolume      = "Volume"
	ColumnDividends   = "Dividends"
	ColumnStockSplits = "Stock Splits"
)

// Columns are the value columns every dataset carries.
var Columns = []string{
	ColumnOpen, ColumnHigh, ColumnLow, ColumnClose,
	ColumnVolume, ColumnDividends, ColumnStockSplits,
}

// Header is the full row header of a persisted dataset.
func Header() []string {
	return append([]string{IndexColumn}, Columns...)
}

// Bar is one time-indexed row.
type Bar struct {
	Time        time.Time
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      int64
	Dividends   float64
	StockSplits float64
}

// Dataset is the table one provider call produced for a ticker.
// Bars are in chronological order.
type Dataset struct {
	Ticker string
	Params Params
	Bars   []Bar
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Bars)
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool { return d.Len() == 0 }

// Columns returns the value column names.
func (d *Dataset) Columns() []string {
	return slices.Clone(Columns)
}

// SortByTime puts bars in chronological order. Equal timestamps keep their
// relative order.
func (d *Dataset) SortByTime() {
	slices.SortStableFunc(d.Bars, func(a, b Bar) int {
		return a.Time.Compare(b.Time)
	})
}

// First returns the earliest bar.
func (d *Dataset) First() (Bar, bool) {
	if d.Empty() {
		return Bar{}, false
	}
	return d.Bars[0], true
}

// Last returns the most recent bar.
func (d *Dataset) Last() (Bar, bool) {
	if d.Empty() {
		return Bar{}, false
	}
	return d.Bars[len(d.Bars)-1], true
}
