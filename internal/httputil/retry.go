// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// DefaultRetryBaseDelay is the base duration for exponential backoff on
// transient failures when the caller passes no override.
const DefaultRetryBaseDelay = 1 * time.Second

const defaultMaxRetries = 5

// Transient reports whether an HTTP status code is worth retrying:
// rate limiting (429) and server-side errors (5xx). Everything else,
// including 4xx rejections, is final.
func Transient(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// DoWithRetry executes an HTTP request and retries transient failures
// with exponential backoff: transport errors, HTTP 429, and HTTP 5xx.
// The delay starts at baseDelay and doubles each attempt.
//
// When maxRetries is 0 the default (5) is used; when baseDelay is 0 the
// default (1 s) is used. On each retried response the body is drained
// and closed before sleeping. If the context is cancelled during a
// backoff wait the function returns ctx.Err(). After exhausting retries
// the last transport error is returned, or the last response so the
// caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, baseDelay time.Duration) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !Transient(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries — surface the last outcome as-is.
		if attempt >= maxRetries {
			if err != nil {
				return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			return resp, nil
		}

		// Drain and close the body before retrying.
		if err == nil {
			io.Copy(io.Discard, resp.Body)
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
