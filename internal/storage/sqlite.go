package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"xorm.io/xorm"

	"marketdownloader/internal/market"
)

// insertChunk keeps multi-row inserts under the driver's bound variable limit.
const insertChunk = 500

// BarRow is the table layout of a dataset in a SQLite file.
type BarRow struct {
	ID          int64   `xorm:"pk autoincr 'id'"`
	Date        int64   `xorm:"index 'date'"` // unix seconds
	Open        float64 `xorm:"'open'"`
	High        float64 `xorm:"'high'"`
	Low         float64 `xorm:"'low'"`
	Close       float64 `xorm:"'close'"`
	Volume      int64   `xorm:"'volume'"`
	Dividends   float64 `xorm:"'dividends'"`
	StockSplits float64 `xorm:"'stock_splits'"`
}

// TableName implements xorm's table name hook.
func (BarRow) TableName() string { return "bar" }

// SQLite stores a dataset as a single-table SQLite database.
type SQLite struct{}

// Ext implements Store.
func (SQLite) Ext() string { return "db" }

// openSQLite opens the file as a one-connection engine; SQLite files only
// tolerate a single writer.
func openSQLite(path string) (*xorm.Engine, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	engine, err := xorm.NewEngine("sqlite", path)
	if err != nil {
		return nil, err
	}
	engine.SetMaxOpenConns(1)
	return engine, nil
}

// Write implements Store.
func (SQLite) Write(ds *market.Dataset, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	engine, err := openSQLite(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer engine.Close()

	if err := engine.Sync2(new(BarRow)); err != nil {
		return fmt.Errorf("failed to create table in %s: %w", path, err)
	}

	rows := make([]BarRow, 0, ds.Len())
	for _, b := range ds.Bars {
		rows = append(rows, BarRow{
			Date:        b.Time.Unix(),
			Open:        b.Open,
			High:        b.High,
			Low:         b.Low,
			Close:       b.Close,
			Volume:      b.Volume,
			Dividends:   b.Dividends,
			StockSplits: b.StockSplits,
		})
	}

	session := engine.NewSession()
	defer session.Close()
	if err := session.Begin(); err != nil {
		return err
	}
	for start := 0; start < len(rows); start += insertChunk {
		end := min(start+insertChunk, len(rows))
		chunk := rows[start:end]
		if _, err := session.Insert(&chunk); err != nil {
			_ = session.Rollback()
			return fmt.Errorf("failed to insert rows into %s: %w", path, err)
		}
	}
	return session.Commit()
}

// Read implements Store.
func (SQLite) Read(path string) (*market.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	engine, err := openSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer engine.Close()

	var rows []BarRow
	if err := engine.Asc("date").Find(&rows); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	ds := datasetFromPath(path)
	ds.Bars = make([]market.Bar, 0, len(rows))
	for _, r := range rows {
		ds.Bars = append(ds.Bars, market.Bar{
			Time:        time.Unix(r.Date, 0).UTC(),
			Open:        r.Open,
			High:        r.High,
			Low:         r.Low,
			Close:       r.Close,
			Volume:      r.Volume,
			Dividends:   r.Dividends,
			StockSplits: r.StockSplits,
		})
	}
	return ds, nil
}

// countSQLite returns the number of stored rows without loading them.
func countSQLite(path string) (int, error) {
	engine, err := openSQLite(path)
	if err != nil {
		return 0, err
	}
	defer engine.Close()

	n, err := engine.Count(new(BarRow))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
