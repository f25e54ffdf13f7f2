package fetcher

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of error that ended processing of a ticker
type ErrorKind string

const (
	// KindNoData indicates the provider answered with zero rows
	KindNoData ErrorKind = "no_data"
	// KindProvider indicates the provider call itself failed (network, timeout, unknown ticker, HTTP status)
	KindProvider ErrorKind = "provider"
	// KindPersist indicates the data was fetched but could not be written to storage
	KindPersist ErrorKind = "persist"
	// KindNotFound indicates a file introspection target does not exist
	KindNotFound ErrorKind = "not_found"
	// KindInvalidInput indicates the request was rejected before reaching the provider
	KindInvalidInput ErrorKind = "invalid_input"
)

// FetchError represents a structured error from a fetch, persist or describe operation
type FetchError struct {
	Kind       ErrorKind
	Ticker     string
	Path       string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	msg := e.Reason()
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

// Reason is the human-readable failure reason without the kind prefix.
func (e *FetchError) Reason() string {
	var inner *FetchError
	switch {
	case e.Cause == nil:
		return e.Message
	case errors.As(e.Cause, &inner):
		return fmt.Sprintf("%s: %s", e.Message, inner.Reason())
	default:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of the first *FetchError in err's chain,
// or KindProvider for any other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindProvider
}

// IsKind reports whether err carries a *FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

// NewNoDataError creates a no-data error
func NewNoDataError(ticker string) *FetchError {
	return &FetchError{
		Kind:    KindNoData,
		Ticker:  ticker,
		Message: fmt.Sprintf("no data found for %s", ticker),
	}
}

// NewProviderError wraps a provider failure
func NewProviderError(ticker string, cause error) *FetchError {
	fe := &FetchError{
		Kind:    KindProvider,
		Ticker:  ticker,
		Message: fmt.Sprintf("failed to fetch %s", ticker),
		Cause:   cause,
	}
	var inner *FetchError
	if errors.As(cause, &inner) && inner.Kind == KindProvider {
		fe.StatusCode = inner.StatusCode
	}
	return fe
}

// NewPersistError creates a persist error for a write to path
func NewPersistError(ticker, path string, cause error) *FetchError {
	return &FetchError{
		Kind:    KindPersist,
		Ticker:  ticker,
		Path:    path,
		Message: fmt.Sprintf("failed to save %s to %s", ticker, path),
		Cause:   cause,
	}
}

// NewNotFoundError creates a not-found error for path
func NewNotFoundError(path string) *FetchError {
	return &FetchError{
		Kind:    KindNotFound,
		Path:    path,
		Message: fmt.Sprintf("file not found: %s", path),
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(ticker, message string) *FetchError {
	return &FetchError{
		Kind:    KindInvalidInput,
		Ticker:  ticker,
		Message: message,
	}
}

// ClassifyHTTPError turns a non-success HTTP status code into a provider error
func ClassifyHTTPError(statusCode int) *FetchError {
	var msg string
	switch {
	case statusCode == 429:
		msg = "rate limit exceeded"
	case statusCode == 404:
		msg = "symbol not found"
	case statusCode >= 500:
		msg = "server returned an error"
	case statusCode >= 400:
		msg = fmt.Sprintf("client error: HTTP %d", statusCode)
	default:
		msg = fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return &FetchError{
		Kind:       KindProvider,
		StatusCode: statusCode,
		Message:    msg,
	}
}
