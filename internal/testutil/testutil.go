package testutil

import (
	"context"
	"sync"
	"time"

	"marketdownloader/internal/fetcher"
	"marketdownloader/internal/market"
)

// MockProvider is a mock implementation of the Provider interface for testing
type MockProvider struct {
	FetchFunc func(ctx context.Context, ticker string, params market.Params) (*market.Dataset, error)
	NameFunc  func() string

	mu    sync.Mutex
	calls []string
}

// Fetch implements the Provider interface
func (m *MockProvider) Fetch(ctx context.Context, ticker string, params market.Params) (*market.Dataset, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ticker)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, ticker, params)
	}
	return &market.Dataset{Ticker: ticker, Params: params}, nil
}

// Name implements the Provider interface
func (m *MockProvider) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

// Calls returns the tickers passed to Fetch, in call order
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// NewMockProvider creates a provider that answers from a fixed table.
// Tickers in rows get a dataset of that many bars; tickers in errs fail with
// that error; anything else gets an empty dataset.
func NewMockProvider(rows map[string]int, errs map[string]error) *MockProvider {
	return &MockProvider{
		FetchFunc: func(ctx context.Context, ticker string, params market.Params) (*market.Dataset, error) {
			if err, ok := errs[ticker]; ok {
				return nil, err
			}
			ds := NewDataset(ticker, rows[ticker])
			ds.Params = params
			return ds, nil
		},
	}
}

var _ fetcher.Provider = (*MockProvider)(nil)

// NewDataset builds a daily dataset of n deterministic bars starting 2024-01-02 UTC
func NewDataset(ticker string, n int) *market.Dataset {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	ds := &market.Dataset{
		Ticker: ticker,
		Params: market.DefaultParams(),
		Bars:   make([]market.Bar, 0, n),
	}
	for i := 0; i < n; i++ {
		base := 100 + float64(i)
		ds.Bars = append(ds.Bars, market.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   base,
			High:   base + 1.5,
			Low:    base - 1.25,
			Close:  base + 0.5,
			Volume: int64(1_000_000 + i*1000),
		})
	}
	return ds
}
