package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"marketdownloader/internal/market"
)

const bytesPerMegabyte = 1024 * 1024

// FileInfo describes a previously written data file.
type FileInfo struct {
	Filename    string
	Path        string
	SizeBytes   int64
	SizeMB      float64
	Modified    time.Time
	Rows        int
	Columns     int
	ColumnNames []string
}

// Describe reads the file at path and reports its size and shape. A missing
// file yields an error satisfying errors.Is(err, os.ErrNotExist).
func Describe(path string) (*FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	info := &FileInfo{
		Filename:  filepath.Base(path),
		Path:      path,
		SizeBytes: st.Size(),
		SizeMB:    float64(st.Size()) / bytesPerMegabyte,
		Modified:  st.ModTime(),
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		ds, err := CSV{}.Read(path)
		if err != nil {
			return nil, err
		}
		header, err := ReadHeader(path)
		if err != nil {
			return nil, err
		}
		info.Rows = ds.Len()
		info.ColumnNames = header
	case ".xlsx":
		sheets, err := ReadWorkbook(path)
		if err != nil {
			return nil, err
		}
		for _, s := range sheets {
			info.Rows += s.Dataset.Len()
		}
		info.ColumnNames = market.Header()
	default:
		if _, err := ForPath(path); err != nil {
			return nil, err
		}
		n, err := countSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", path, err)
		}
		info.Rows = n
		info.ColumnNames = market.Header()
	}

	info.Columns = len(info.ColumnNames)
	return info, nil
}

// IsNotExist reports whether err means the described file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
