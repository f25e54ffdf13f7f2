package reporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"marketdownloader/internal/fetcher"
	"marketdownloader/internal/market"
)

// Slog writes every event as a structured log record.
type Slog struct {
	logger *slog.Logger
}

// NewSlog creates a reporter on top of logger (slog.Default when nil).
func NewSlog(logger *slog.Logger) *Slog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog{logger: logger}
}

// OpenLogFile opens the daily JSON log file {dir}/data_download_YYYYMMDD.log
// for appending and returns a logger on it. The caller closes the file.
func OpenLogFile(dir string, now time.Time) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	name := filepath.Join(dir, fmt.Sprintf("data_download_%s.log", now.Format("20060102")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", name, err)
	}
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler).With("logger", defaultName), f, nil
}

func (s *Slog) slogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Log implements Reporter.
func (s *Slog) Log(level Level, msg string) {
	attrs := []any{}
	if level == LevelSuccess {
		attrs = append(attrs, "outcome", "success")
	}
	s.logger.Log(context.Background(), s.slogLevel(level), msg, attrs...)
}

// DownloadStart implements Reporter.
func (s *Slog) DownloadStart(ticker string, params market.Params) {
	s.logger.Info("download start",
		"ticker", ticker,
		"period", string(params.Period),
		"interval", string(params.Interval))
}

// DownloadComplete implements Reporter.
func (s *Slog) DownloadComplete(ticker string, rows int, path string) {
	s.logger.Info("download complete",
		"ticker", ticker,
		"rows", rows,
		"path", path)
}

// DownloadError implements Reporter.
func (s *Slog) DownloadError(ticker string, err error) {
	kind := fetcher.KindOf(err)
	level := slog.LevelError
	if kind == fetcher.KindNoData {
		level = slog.LevelWarn
	}
	s.logger.Log(context.Background(), level, "download error",
		"ticker", ticker,
		"kind", string(kind),
		"error", Reason(err))
}

// DataStats implements Reporter.
func (s *Slog) DataStats(ticker string, rows int, columns []string) {
	s.logger.Debug("data stats",
		"ticker", ticker,
		"rows", rows,
		"columns", columns)
}

// BatchSummary implements Reporter.
func (s *Slog) BatchSummary(sum Summary) {
	s.logger.Info("batch summary",
		"requested", sum.Requested,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed)
}

// Separator implements Reporter. Structured logs have no separators.
func (s *Slog) Separator() {}
