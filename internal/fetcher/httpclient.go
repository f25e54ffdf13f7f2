package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resty.dev/v3"
)

const (
	// DefaultTimeout bounds a single provider request
	DefaultTimeout = 30 * time.Second

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) marketdownloader/1.0"
)

// NewHTTPClient creates the HTTP client shared by the HTTP providers.
// Each request is attempted exactly once; the timeout is the only bound.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout).
		SetRetryCount(0)
}

// CheckResponse converts a transport error or a non-success status into a
// provider-kind *FetchError. It returns nil for a 2xx response.
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		msg := "network request failed"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "request timed out"
		} else if errors.Is(err, context.Canceled) {
			msg = "request canceled"
		}
		return &FetchError{Kind: KindProvider, Message: msg, Cause: err}
	}

	slog.Debug("provider response",
		"url", resp.Request.URL,
		"status_code", resp.StatusCode())

	if !resp.IsSuccess() {
		return ClassifyHTTPError(resp.StatusCode())
	}
	return nil
}
