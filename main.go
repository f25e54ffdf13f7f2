package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"marketdownloader/internal/alphavantage"
	"marketdownloader/internal/config"
	"marketdownloader/internal/downloader"
	"marketdownloader/internal/fetcher"
	"marketdownloader/internal/market"
	"marketdownloader/internal/reporter"
	"marketdownloader/internal/seed"
	"marketdownloader/internal/storage"
	"marketdownloader/internal/yahoo"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	nowFunc        = time.Now
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("marketdownloader: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	// .env is optional
	_ = loadEnvFunc()

	cfg, err := loadConfigFunc(args)
	if err != nil {
		return err
	}

	if cfg.Describe != "" {
		return describe(stdout, cfg.Describe)
	}

	seed.Set(cfg.Seed)

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	store, err := storage.New(storage.Format(cfg.Format))
	if err != nil {
		return err
	}

	console := reporter.NewConsole(stdout, reporter.WithColors(cfg.Colors))
	rep := reporter.Multi{console}
	if cfg.FileLogging {
		logger, closer, err := reporter.OpenLogFile(cfg.LogDir, nowFunc())
		if err != nil {
			return err
		}
		defer closer.Close()
		prev := slog.Default()
		slog.SetDefault(logger)
		defer slog.SetDefault(prev)
		rep = append(rep, reporter.NewSlog(logger))
	}

	params := market.Params{Period: market.Period(cfg.Period), Interval: market.Interval(cfg.Interval)}

	banner := strings.Repeat("=", 50)
	fmt.Fprintln(stdout, banner)
	fmt.Fprintln(stdout, "Stock Data Downloader - Volatility Research")
	fmt.Fprintln(stdout, banner)
	fmt.Fprintf(stdout, "\nDownloading %d tickers from %s (period=%s, interval=%s, seed=%d)...\n\n",
		len(cfg.Tickers), provider.Name(), params.Period, params.Interval, seed.Get())

	d := downloader.New(provider, rep, downloader.WithStore(store))
	result, err := d.FetchMany(ctx, cfg.Tickers, params, downloader.Options{
		OutputDir:        cfg.OutputDir,
		SaveIndividual:   cfg.SaveIndividual,
		SaveCombined:     cfg.SaveCombined,
		CombinedFilename: cfg.CombinedFilename,
	})

	sum := result.Summary()
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, banner)
	fmt.Fprintln(stdout, "Download Summary")
	fmt.Fprintln(stdout, banner)
	fmt.Fprintf(stdout, "Successfully downloaded: %d out of %d tickers\n", sum.Succeeded, sum.Requested)
	for _, t := range result.Failed() {
		fmt.Fprintf(stdout, "  %s: %s\n", t, reporter.Reason(result.Failures[t]))
	}

	if err != nil {
		return err
	}
	if sum.Requested > 0 && sum.Succeeded == 0 {
		return errors.New("no tickers were downloaded")
	}
	return nil
}

func newProvider(cfg *config.Config) (fetcher.Provider, error) {
	switch cfg.Provider {
	case config.ProviderYahoo:
		return yahoo.NewChartProvider(cfg.YahooBaseURL, cfg.HTTPTimeout), nil
	case config.ProviderAlphaVantage:
		return alphavantage.NewStockProvider(cfg.AlphavantageAPIKey, cfg.AlphavantageBaseURL, cfg.HTTPTimeout), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func describe(w io.Writer, path string) error {
	info, err := downloader.Describe(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "File:     %s\n", info.Filename)
	fmt.Fprintf(w, "Path:     %s\n", info.Path)
	fmt.Fprintf(w, "Size:     %s (%.4f MB)\n", humanize.Bytes(uint64(info.SizeBytes)), info.SizeMB)
	fmt.Fprintf(w, "Modified: %s (%s)\n", info.Modified.Format(time.DateTime), humanize.Time(info.Modified))
	fmt.Fprintf(w, "Rows:     %s\n", humanize.Comma(int64(info.Rows)))
	fmt.Fprintf(w, "Columns:  %d (%s)\n", info.Columns, strings.Join(info.ColumnNames, ", "))
	return nil
}
