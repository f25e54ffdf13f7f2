// Package storage persists datasets as flat files and reads them back.
//
// A dataset is written as one row-oriented file per ticker, either CSV or
// SQLite, named {ticker}_{period}.{ext}. Several datasets can also be
// written together into a single XLSX workbook with one sheet per ticker.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"marketdownloader/internal/market"
)

// Format selects the row-oriented file type used for individual datasets.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported individual file formats.
var Formats = []Format{FormatCSV, FormatSQLite}

// Store writes and reads one dataset per file.
type Store interface {
	// Write persists ds to path, replacing any existing file.
	Write(ds *market.Dataset, path string) error
	// Read loads the dataset stored at path.
	Read(path string) (*market.Dataset, error)
	// Ext is the file extension without the dot.
	Ext() string
}

// New returns the store for format.
func New(format Format) (Store, error) {
	switch format {
	case FormatCSV, "":
		return CSV{}, nil
	case FormatSQLite:
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported storage format %q", format)
	}
}

// EnsureDir creates dir if needed and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}
	return abs, nil
}

// FileName returns the file name for a ticker's dataset. Path separators in
// the ticker become underscores. A custom name is used as given, with ext
// appended when it does not already end in it.
func FileName(ticker string, period market.Period, custom, ext string) string {
	suffix := "." + ext
	if custom != "" {
		if strings.HasSuffix(custom, suffix) {
			return custom
		}
		return custom + suffix
	}
	return fmt.Sprintf("%s_%s%s", pathSafe.Replace(ticker), period, suffix)
}

// pathSafe keeps a ticker like BRK/B inside the output directory.
var pathSafe = strings.NewReplacer("/", "_", `\`, "_")

// CombinedFileName returns the default workbook name for a batch.
func CombinedFileName(period market.Period) string {
	return fmt.Sprintf("combined_stocks_%s.xlsx", period)
}

// DatasetPath joins dir and the ticker's file name.
func DatasetPath(dir, ticker string, period market.Period, custom, ext string) string {
	return filepath.Join(dir, FileName(ticker, period, custom, ext))
}

// ForPath picks the store matching path's extension.
func ForPath(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV{}, nil
	case ".db", ".sqlite", ".sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("no store for %s", filepath.Base(path))
	}
}
