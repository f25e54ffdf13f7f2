package reporter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"marketdownloader/internal/fetcher"
	"marketdownloader/internal/market"
)

const (
	consoleTimeFormat = "2006-01-02 15:04:05"
	defaultName       = "download_logger"
	separatorWidth    = 50
)

type symbol struct {
	glyph    string
	fallback string
}

var (
	symbolOK    = symbol{"✓", "[OK]"}
	symbolWarn  = symbol{"⚠", "[WARN]"}
	symbolError = symbol{"✗", "[ERR]"}
	symbolDebug = symbol{"⚙", "[DBG]"}
)

// Console renders events as colored, human-readable lines.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	name   string
	ascii  bool
	now    func() time.Time
	colors map[Level]*color.Color
	sep    *color.Color
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColors turns ANSI colors on or off regardless of the terminal.
func WithColors(enabled bool) ConsoleOption {
	return func(c *Console) {
		for _, col := range append(c.palette(), c.sep) {
			if enabled {
				col.EnableColor()
			} else {
				col.DisableColor()
			}
		}
	}
}

// WithASCII replaces the unicode status symbols with bracketed tags.
func WithASCII(ascii bool) ConsoleOption {
	return func(c *Console) { c.ascii = ascii }
}

// WithName sets the logger name printed on each line.
func WithName(name string) ConsoleOption {
	return func(c *Console) { c.name = name }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ConsoleOption {
	return func(c *Console) { c.now = now }
}

// NewConsole creates a console reporter writing to out (stdout when nil).
// Symbols fall back to ASCII on Windows consoles.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	if out == nil {
		out = os.Stdout
	}
	c := &Console{
		out:   out,
		name:  defaultName,
		ascii: runtime.GOOS == "windows",
		now:   time.Now,
		colors: map[Level]*color.Color{
			LevelDebug:   color.New(color.FgHiCyan),
			LevelInfo:    color.New(color.FgHiGreen),
			LevelSuccess: color.New(color.FgHiGreen),
			LevelWarning: color.New(color.FgHiYellow),
			LevelError:   color.New(color.FgHiRed),
		},
		sep: color.New(color.FgHiBlue),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) palette() []*color.Color {
	out := make([]*color.Color, 0, len(c.colors))
	for _, col := range c.colors {
		out = append(out, col)
	}
	return out
}

func (c *Console) symbolFor(level Level) string {
	var s symbol
	switch level {
	case LevelWarning:
		s = symbolWarn
	case LevelError:
		s = symbolError
	case LevelDebug:
		s = symbolDebug
	default:
		s = symbolOK
	}
	if c.ascii {
		return s.fallback
	}
	return s.glyph
}

// Log implements Reporter.
func (c *Console) Log(level Level, msg string) {
	levelName := level.String()
	if level == LevelSuccess {
		levelName = LevelInfo.String()
	}
	col, ok := c.colors[level]
	if !ok {
		col = c.colors[LevelInfo]
	}
	body := col.Sprintf("%s %s", c.symbolFor(level), msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s - %s - %s - %s\n", c.now().Format(consoleTimeFormat), c.name, levelName, body)
}

// DownloadStart implements Reporter.
func (c *Console) DownloadStart(ticker string, params market.Params) {
	c.Log(LevelInfo, fmt.Sprintf("Starting download: %s (period=%s, interval=%s)", ticker, params.Period, params.Interval))
}

// DownloadComplete implements Reporter.
func (c *Console) DownloadComplete(ticker string, rows int, path string) {
	if path == "" {
		c.Log(LevelSuccess, fmt.Sprintf("Download complete: %s - %d rows", ticker, rows))
		return
	}
	c.Log(LevelSuccess, fmt.Sprintf("Download complete: %s - %d rows saved to %s", ticker, rows, path))
}

// DownloadError implements Reporter.
func (c *Console) DownloadError(ticker string, err error) {
	switch fetcher.KindOf(err) {
	case fetcher.KindNoData:
		c.Log(LevelWarning, fmt.Sprintf("No data found for %s", ticker))
	case fetcher.KindPersist:
		c.Log(LevelError, fmt.Sprintf("Save failed for %s: %s", ticker, Reason(err)))
	default:
		c.Log(LevelError, fmt.Sprintf("Download failed for %s: %s", ticker, Reason(err)))
	}
}

// DataStats implements Reporter.
func (c *Console) DataStats(ticker string, rows int, columns []string) {
	c.Log(LevelDebug, fmt.Sprintf("%s | Rows: %d | Columns: %s", ticker, rows, strings.Join(columns, ", ")))
}

// BatchSummary implements Reporter.
func (c *Console) BatchSummary(s Summary) {
	level := LevelInfo
	if s.Failed > 0 {
		level = LevelWarning
	}
	c.Log(level, fmt.Sprintf("Successfully downloaded: %d out of %d tickers (%d failed)", s.Succeeded, s.Requested, s.Failed))
}

// Separator implements Reporter.
func (c *Console) Separator() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.sep.Sprint(strings.Repeat("-", separatorWidth)))
}

// Reason returns the failure reason of err without its kind prefix.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var fe *fetcher.FetchError
	if errors.As(err, &fe) {
		return fe.Reason()
	}
	return err.Error()
}
