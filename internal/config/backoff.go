package config

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

const (
	BASE_BACKOFF   = 1 * time.Second
	MAX_BACKOFF    = 2 * time.Minute
	BACKOFF_FACTOR = 2.0
	JITTER_FACTOR  = 0.5

	defaultMaxRetries = 3
)

// DoWithBackoff performs the request, retrying with jittered exponential
// backoff on transport errors and 5xx responses. 4xx responses are returned
// to the caller immediately; they will not change on retry. The request
// must have no body (all of ours are GETs).
func DoWithBackoff(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	delay := BASE_BACKOFF
	var lastErr error

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("request to %s failed after %d attempts: %w", req.URL, attempt+1, lastErr)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(withJitter(delay)):
		}
		delay = nextBackoffDelay(delay)
	}
}

func withJitter(delay time.Duration) time.Duration {
	jitter := time.Duration(rand.Float64() * float64(delay) * JITTER_FACTOR)
	delay += jitter
	if delay > MAX_BACKOFF {
		delay = MAX_BACKOFF
	}
	return delay
}

func nextBackoffDelay(delay time.Duration) time.Duration {
	delay = time.Duration(float64(delay) * BACKOFF_FACTOR)
	if delay >= MAX_BACKOFF {
		delay = MAX_BACKOFF
	}
	return delay
}
