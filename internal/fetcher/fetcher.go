package fetcher

import (
	"context"

	"marketdownloader/internal/market"
)

// Provider is the market data boundary every data source implements.
// A provider answers one (ticker, params) query per call and never retries.
type Provider interface {
	// Fetch returns the ticker's dataset for the given params.
	// A provider may return an empty dataset; callers decide what that means.
	Fetch(ctx context.Context, ticker string, params market.Params) (*market.Dataset, error)

	// Name identifies the provider in logs and keys.
	// Examples: "yahoo", "alphavantage"
	Name() string
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, ticker string, params market.Params) (*market.Dataset, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context, ticker string, params market.Params) (*market.Dataset, error) {
	return f(ctx, ticker, params)
}

// Name implements Provider.
func (f ProviderFunc) Name() string { return "func" }
