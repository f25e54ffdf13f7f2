package storage

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/injoyai/goutil/oss"
	"github.com/injoyai/goutil/other/csv"

	"marketdownloader/internal/market"
)

const (
	// DateFormat is how the time index is written. Time zones are dropped;
	// timestamps keep the wall clock of the exchange they came from.
	DateFormat = "2006-01-02 15:04:05"

	floatPrecision = 6
	utf8BOM        = "\ufeff"
)

// CSV stores a dataset as a comma separated file with a header row.
type CSV struct{}

// Ext implements Store.
func (CSV) Ext() string { return "csv" }

// Write implements Store.
func (CSV) Write(ds *market.Dataset, path string) error {
	data := make([][]any, 0, ds.Len()+1)
	data = append(data, toAny(market.Header()))
	for _, b := range ds.Bars {
		data = append(data, toAny(formatBar(b)))
	}

	buf, err := csv.Export(data)
	if err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}
	// Files are written without a byte order mark.
	if bytes.HasPrefix(buf.Bytes(), csv.UTF8) {
		buf.Next(len(csv.UTF8))
	}
	if err := oss.New(path, buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Read implements Store.
func (CSV) Read(path string) (*market.Dataset, error) {
	ds := datasetFromPath(path)

	var header []string
	var parseErr error
	err := csv.ImportRange(path, func(i int, line []string) bool {
		if i == 0 {
			header = line
			if len(header) > 0 {
				header[0] = strings.TrimPrefix(header[0], utf8BOM)
			}
			return true
		}
		if len(line) == 0 || (len(line) == 1 && line[0] == "") {
			return true
		}
		b, err := parseBar(header, line)
		if err != nil {
			parseErr = fmt.Errorf("%s line %d: %w", filepath.Base(path), i+1, err)
			return false
		}
		ds.Bars = append(ds.Bars, b)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return ds, nil
}

// ReadHeader returns the column names of a CSV file.
func ReadHeader(path string) ([]string, error) {
	var header []string
	err := csv.ImportRange(path, func(i int, line []string) bool {
		header = line
		if len(header) > 0 {
			header[0] = strings.TrimPrefix(header[0], utf8BOM)
		}
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return header, nil
}

func formatBar(b market.Bar) []string {
	return []string{
		b.Time.Format(DateFormat),
		formatFloat(b.Open),
		formatFloat(b.High),
		formatFloat(b.Low),
		formatFloat(b.Close),
		strconv.FormatInt(b.Volume, 10),
		formatFloat(b.Dividends),
		formatFloat(b.StockSplits),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', floatPrecision, 64)
}

// parseBar maps a row onto a bar by header name, so files with extra or
// reordered columns still load.
func parseBar(header, line []string) (market.Bar, error) {
	var b market.Bar
	for i, name := range header {
		if i >= len(line) {
			break
		}
		v := strings.TrimSpace(line[i])
		var err error
		switch name {
		case market.IndexColumn:
			b.Time, err = parseTime(v)
		case market.ColumnOpen:
			b.Open, err = parseFloat(v)
		case market.ColumnHigh:
			b.High, err = parseFloat(v)
		case market.ColumnLow:
			b.Low, err = parseFloat(v)
		case market.ColumnClose:
			b.Close, err = parseFloat(v)
		case market.ColumnVolume:
			var f float64
			f, err = parseFloat(v)
			b.Volume = int64(f)
		case market.ColumnDividends:
			b.Dividends, err = parseFloat(v)
		case market.ColumnStockSplits:
			b.StockSplits, err = parseFloat(v)
		}
		if err != nil {
			return market.Bar{}, fmt.Errorf("column %s: %w", name, err)
		}
	}
	return b, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{DateFormat, time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// datasetFromPath recovers ticker and period from a {ticker}_{period}.{ext} name.
func datasetFromPath(path string) *market.Dataset {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ds := &market.Dataset{Ticker: base}
	if i := strings.LastIndex(base, "_"); i > 0 {
		if p := market.Period(base[i+1:]); p.Valid() {
			ds.Ticker = base[:i]
			ds.Params.Period = p
		}
	}
	return ds
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
