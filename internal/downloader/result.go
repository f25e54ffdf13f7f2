package downloader

import (
	"slices"

	"marketdownloader/internal/fetcher"
	"marketdownloader/internal/market"
	"marketdownloader/internal/reporter"
	"marketdownloader/internal/storage"
)

// BatchResult holds the successful datasets of a batch.
//
// Datasets only contains tickers that were fetched (and saved, when asked).
// A requested ticker missing from Datasets failed; its reason is in Failures.
type BatchResult struct {
	// Datasets maps each successful ticker to its data.
	Datasets map[string]*market.Dataset

	// Order lists the keys of Datasets in input order.
	Order []string

	// Failures maps each failed ticker to the error that ended it.
	Failures map[string]error

	// Paths maps each saved ticker to its individual file.
	Paths map[string]string

	// Requested counts distinct tickers processed.
	Requested int

	// CombinedPath is the workbook written for the batch, if any.
	CombinedPath string

	failed    []string
	processed map[string]bool
}

func newBatchResult() *BatchResult {
	return &BatchResult{
		Datasets:  make(map[string]*market.Dataset),
		Failures:  make(map[string]error),
		Paths:     make(map[string]string),
		processed: make(map[string]bool),
	}
}

func (r *BatchResult) seen(ticker string) bool {
	if r.processed[ticker] {
		return true
	}
	r.processed[ticker] = true
	return false
}

func (r *BatchResult) add(out fetcher.Outcome) {
	if !out.OK() {
		r.Failures[out.Ticker] = out.Error
		r.failed = append(r.failed, out.Ticker)
		return
	}
	r.Datasets[out.Ticker] = out.Dataset
	r.Order = append(r.Order, out.Ticker)
	if out.Path != "" {
		r.Paths[out.Ticker] = out.Path
	}
}

// Len is the number of successful tickers.
func (r *BatchResult) Len() int { return len(r.Datasets) }

// Get returns the dataset for ticker and whether it succeeded.
func (r *BatchResult) Get(ticker string) (*market.Dataset, bool) {
	ds, ok := r.Datasets[ticker]
	return ds, ok
}

// Failed lists the failed tickers in input order.
func (r *BatchResult) Failed() []string {
	return slices.Clone(r.failed)
}

// Summary tallies the batch.
func (r *BatchResult) Summary() reporter.Summary {
	return reporter.Summary{
		Requested: r.Requested,
		Succeeded: len(r.Datasets),
		Failed:    len(r.Failures),
	}
}

// Sheets returns one workbook sheet per success, named after the ticker.
func (r *BatchResult) Sheets() []storage.Sheet {
	sheets := make([]storage.Sheet, 0, len(r.Order))
	for _, t := range r.Order {
		sheets = append(sheets, storage.Sheet{Name: t, Dataset: r.Datasets[t]})
	}
	return sheets
}
