// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package httputil provides HTTP helpers shared by remote clients.
package httputil

import (
	"context"
	"math"
	"net/http"
	"time"
)

// DefaultBaseDelay is the base duration for exponential backoff when the
// caller does not supply one. Tests pass a tiny delay instead.
var DefaultBaseDelay = 1 * time.Second

const defaultMaxRetries = 3

// retryableStatus reports whether an HTTP status is worth retrying:
// rate limiting and transient server-side failures. Authentication,
// quota, and other client errors are not retried.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// DoWithRetry executes req and retries transient failures (HTTP 429,
// 5xx, and transport errors) with exponential backoff: baseDelay, then
// doubled on each attempt. The backoff sleep blocks the calling context
// entirely; cancellation during a wait returns ctx.Err(). After
// exhausting retries the last response or transport error is returned
// so the caller can classify it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, baseDelay time.Duration) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if attempt >= maxRetries {
			return resp, err
		}

		if resp != nil {
			resp.Body.Close()
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * baseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
