package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"marketdownloader/internal/market"
)

// Sheet is one named dataset inside a workbook.
type Sheet struct {
	Name    string
	Dataset *market.Dataset
}

// ErrNoSheets is returned when asked to write a workbook without datasets.
var ErrNoSheets = errors.New("workbook needs at least one sheet")

// ErrDuplicateSheet is returned when two sheet names differ only by case.
// Excel treats such names as the same sheet.
var ErrDuplicateSheet = errors.New("duplicate sheet name")

// WriteWorkbook writes the sheets, in order, into a single XLSX file at path.
// Each sheet holds the header row followed by one row per bar.
func WriteWorkbook(sheets []Sheet, path string) error {
	if len(sheets) == 0 {
		return ErrNoSheets
	}
	seen := make(map[string]string, len(sheets))
	for _, s := range sheets {
		key := strings.ToLower(s.Name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q collides with %q", ErrDuplicateSheet, s.Name, prev)
		}
		seen[key] = s.Name
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", s.Name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, s Sheet) error {
	sw, err := f.NewStreamWriter(s.Name)
	if err != nil {
		return fmt.Errorf("failed to open sheet %q: %w", s.Name, err)
	}

	header := market.Header()
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := sw.SetRow("A1", row); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", s.Name, err)
	}

	for n, b := range s.Dataset.Bars {
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		err = sw.SetRow(cell, []any{
			b.Time.Format(DateFormat),
			b.Open, b.High, b.Low, b.Close,
			b.Volume, b.Dividends, b.StockSplits,
		})
		if err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", n+2, s.Name, err)
		}
	}
	return sw.Flush()
}

// ReadWorkbook loads every sheet of an XLSX file, in workbook order.
func ReadWorkbook(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		ds := &market.Dataset{Ticker: name}
		if len(rows) > 0 {
			header := rows[0]
			for i, line := range rows[1:] {
				if len(line) == 0 {
					continue
				}
				b, err := parseBar(header, line)
				if err != nil {
					return nil, fmt.Errorf("sheet %q row %d: %w", name, i+2, err)
				}
				ds.Bars = append(ds.Bars, b)
			}
		}
		sheets = append(sheets, Sheet{Name: name, Dataset: ds})
	}
	return sheets, nil
}
