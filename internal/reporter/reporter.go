// Package reporter carries download events to their observers. The
// downloader never writes output itself; it emits events to a Reporter
// supplied by the caller.
package reporter

import "marketdownloader/internal/market"

// Level is the severity of a free-text message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Summary is the final tally of a batch.
type Summary struct {
	Requested int
	Succeeded int
	Failed    int
}

// Reporter receives leveled messages and download lifecycle events.
// Implementations must not fail; reporting is purely observational.
type Reporter interface {
	Log(level Level, msg string)

	DownloadStart(ticker string, params market.Params)
	DownloadComplete(ticker string, rows int, path string)
	// DownloadError receives the *fetcher.FetchError that ended the ticker.
	DownloadError(ticker string, err error)
	DataStats(ticker string, rows int, columns []string)
	BatchSummary(s Summary)

	// Separator marks the end of one ticker's output in a batch.
	Separator()
}

// Info logs at LevelInfo.
func Info(r Reporter, msg string) { r.Log(LevelInfo, msg) }

// Success logs at LevelSuccess.
func Success(r Reporter, msg string) { r.Log(LevelSuccess, msg) }

// Warning logs at LevelWarning.
func Warning(r Reporter, msg string) { r.Log(LevelWarning, msg) }

// Error logs at LevelError.
func Error(r Reporter, msg string) { r.Log(LevelError, msg) }

// Debug logs at LevelDebug.
func Debug(r Reporter, msg string) { r.Log(LevelDebug, msg) }

// Nop discards every event.
type Nop struct{}

func (Nop) Log(Level, string) {}
func (Nop) DownloadStart(string, market.Params) {}
func (Nop) DownloadComplete(string, int, string) {}
func (Nop) DownloadError(string, error) {}
func (Nop) DataStats(string, int, []string) {}
func (Nop) BatchSummary(Summary) {}
func (Nop) Separator() {}

// Multi fans every event out to each reporter in order.
type Multi []Reporter

func (m Multi) Log(level Level, msg string) {
	for _, r := range m {
		r.Log(level, msg)
	}
}

func (m Multi) DownloadStart(ticker string, params market.Params) {
	for _, r := range m {
		r.DownloadStart(ticker, params)
	}
}

func (m Multi) DownloadComplete(ticker string, rows int, path string) {
	for _, r := range m {
		r.DownloadComplete(ticker, rows, path)
	}
}

func (m Multi) DownloadError(ticker string, err error) {
	for _, r := range m {
		r.DownloadError(ticker, err)
	}
}

func (m Multi) DataStats(ticker string, rows int, columns []string) {
	for _, r := range m {
		r.DataStats(ticker, rows, columns)
	}
}

func (m Multi) BatchSummary(s Summary) {
	for _, r := range m {
		r.BatchSummary(s)
	}
}

func (m Multi) Separator() {
	for _, r := range m {
		r.Separator()
	}
}
