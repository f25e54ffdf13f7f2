// Package downloader fetches market datasets for one or many tickers and
// persists them through the storage package.
//
// Batches run sequentially in input order. A failing ticker is reported and
// skipped; it never aborts the batch. Failed tickers are absent from
// BatchResult.Datasets, so callers must treat absence as failure. The reason
// for each failure is also kept in BatchResult.Failures.
package downloader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"marketdownloader/internal/fetcher"
	"marketdownloader/internal/market"
	"marketdownloader/internal/reporter"
	"marketdownloader/internal/storage"
)

// DefaultOutputDir is where datasets are written when no directory is given.
const DefaultOutputDir = "./data/raw"

// Options controls persistence for FetchMany.
type Options struct {
	// OutputDir receives the individual files and the combined workbook.
	// Empty means DefaultOutputDir.
	OutputDir string

	// SaveIndividual writes each dataset to {ticker}_{period}.{ext}.
	SaveIndividual bool

	// SaveCombined writes every successful dataset into one XLSX workbook,
	// one sheet per ticker in input order.
	SaveCombined bool

	// CombinedFilename overrides combined_stocks_{period}.xlsx.
	CombinedFilename string
}

// Downloader runs provider fetches and reports every step.
type Downloader struct {
	provider fetcher.Provider
	reporter reporter.Reporter
	store    storage.Store
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithStore sets the store used for individual files. CSV is the default.
func WithStore(s storage.Store) Option {
	return func(d *Downloader) { d.store = s }
}

// New creates a downloader on top of provider. A nil reporter discards events.
func New(provider fetcher.Provider, rep reporter.Reporter, opts ...Option) *Downloader {
	if rep == nil {
		rep = reporter.Nop{}
	}
	d := &Downloader{
		provider: provider,
		reporter: rep,
		store:    storage.CSV{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FetchOne fetches a single ticker. When dest is non-empty the dataset is
// written there before returning; the store's extension is appended when dest
// lacks it. The provider is called exactly once.
//
// Errors are *fetcher.FetchError of kind KindNoData, KindProvider, KindPersist
// or KindInvalidInput.
func (d *Downloader) FetchOne(ctx context.Context, ticker string, params market.Params, dest string) (*market.Dataset, error) {
	if dest != "" {
		dest = storage.FileName(ticker, params.Period, dest, d.store.Ext())
	}
	out := d.fetchOne(ctx, ticker, params, dest)
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Dataset, nil
}

func (d *Downloader) fetchOne(ctx context.Context, ticker string, params market.Params, path string) fetcher.Outcome {
	out := fetcher.Outcome{Ticker: ticker}
	d.reporter.DownloadStart(ticker, params)

	if strings.TrimSpace(ticker) == "" {
		out.Error = fetcher.NewInvalidInputError(ticker, "ticker must not be empty")
		d.reporter.DownloadError(ticker, out.Error)
		return out
	}

	ds, err := d.provider.Fetch(ctx, ticker, params)
	if err != nil {
		out.Error = fetcher.NewProviderError(ticker, err)
		d.reporter.DownloadError(ticker, out.Error)
		return out
	}
	if ds.Empty() {
		out.Error = fetcher.NewNoDataError(ticker)
		d.reporter.DownloadError(ticker, out.Error)
		return out
	}

	ds.Ticker = ticker
	ds.Params = params
	ds.SortByTime()

	if path != "" {
		if err := d.store.Write(ds, path); err != nil {
			out.Error = fetcher.NewPersistError(ticker, path, err)
			d.reporter.DownloadError(ticker, out.Error)
			return out
		}
		out.Path = path
	}

	out.Dataset = ds
	d.reporter.DownloadComplete(ticker, ds.Len(), out.Path)
	d.reporter.DataStats(ticker, ds.Len(), ds.Columns())
	return out
}

// FetchMany fetches every ticker in order and returns the successes.
//
// Per-ticker failures are reported and recorded in BatchResult.Failures but
// never returned. The only error FetchMany returns is a failure to write the
// combined workbook; the result is still complete in that case. Repeated
// tickers are fetched once.
func (d *Downloader) FetchMany(ctx context.Context, tickers []string, params market.Params, opts Options) (*BatchResult, error) {
	result := newBatchResult()
	var dir string
	if len(tickers) > 0 {
		dir = d.outputDir(opts)
	}

	for _, ticker := range tickers {
		if result.seen(ticker) {
			reporter.Warning(d.reporter, fmt.Sprintf("Skipping duplicate ticker %s", ticker))
			continue
		}
		result.Requested++

		var path string
		if opts.SaveIndividual {
			path = storage.DatasetPath(dir, ticker, params.Period, "", d.store.Ext())
		}
		result.add(d.fetchOne(ctx, ticker, params, path))
		d.reporter.Separator()
	}

	var combinedErr error
	if opts.SaveCombined && result.Len() > 0 {
		combinedErr = d.saveCombined(result, dir, params.Period, opts.CombinedFilename)
	}

	d.reporter.BatchSummary(result.Summary())
	return result, combinedErr
}

func (d *Downloader) outputDir(opts Options) string {
	dir := opts.OutputDir
	if dir == "" {
		dir = DefaultOutputDir
	}
	if !opts.SaveIndividual && !opts.SaveCombined {
		return dir
	}
	abs, err := storage.EnsureDir(dir)
	if err != nil {
		reporter.Warning(d.reporter, err.Error())
		return dir
	}
	return abs
}

func (d *Downloader) saveCombined(result *BatchResult, dir string, period market.Period, name string) error {
	if name == "" {
		name = storage.CombinedFileName(period)
	} else if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		name += ".xlsx"
	}
	path := filepath.Join(dir, name)

	if err := storage.WriteWorkbook(result.Sheets(), path); err != nil {
		fe := &fetcher.FetchError{
			Kind:    fetcher.KindPersist,
			Path:    path,
			Message: fmt.Sprintf("failed to save combined workbook to %s", path),
			Cause:   err,
		}
		reporter.Error(d.reporter, fmt.Sprintf("Failed to save combined Excel: %s", fe.Reason()))
		return fe
	}

	result.CombinedPath = path
	reporter.Success(d.reporter, fmt.Sprintf("Combined Excel saved to %s", path))
	return nil
}

// Describe reports size and shape of a previously written data file.
// A missing path fails with a KindNotFound error.
func Describe(path string) (*storage.FileInfo, error) {
	info, err := storage.Describe(path)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, fetcher.NewNotFoundError(path)
		}
		return nil, fmt.Errorf("failed to describe %s: %w", path, err)
	}
	return info, nil
}

// DownloadStockData fetches one ticker and saves it as CSV under outputDir
// (DefaultOutputDir when empty), optionally under a custom file name.
func DownloadStockData(ctx context.Context, provider fetcher.Provider, rep reporter.Reporter, ticker string, params market.Params, filename, outputDir string) (*market.Dataset, error) {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	dir, err := storage.EnsureDir(outputDir)
	if err != nil {
		return nil, fetcher.NewPersistError(ticker, outputDir, err)
	}

	d := New(provider, rep)
	path := storage.DatasetPath(dir, ticker, params.Period, filename, d.store.Ext())
	out := d.fetchOne(ctx, ticker, params, path)
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Dataset, nil
}

// DownloadMultipleStocks fetches tickers into individual CSV files under
// outputDir and, when saveCombined is set, one combined workbook.
func DownloadMultipleStocks(ctx context.Context, provider fetcher.Provider, rep reporter.Reporter, tickers []string, params market.Params, outputDir string, saveCombined bool) (*BatchResult, error) {
	return New(provider, rep).FetchMany(ctx, tickers, params, Options{
		OutputDir:      outputDir,
		SaveIndividual: true,
		SaveCombined:   saveCombined,
	})
}
