package fetcher

import "marketdownloader/internal/market"

// Outcome is the result of processing one ticker in a batch.
// Exactly one of Dataset and Error is set.
type Outcome struct {
	// Ticker is the identifier that was requested
	Ticker string

	// Dataset is the fetched data. Nil when Error is set.
	Dataset *market.Dataset

	// Path is where the dataset was persisted, empty if it was not saved.
	Path string

	// Error is the *FetchError that ended processing of this ticker.
	Error error
}

// OK reports whether the ticker was fetched (and persisted, if requested).
func (o Outcome) OK() bool {
	return o.Error == nil && o.Dataset != nil
}
