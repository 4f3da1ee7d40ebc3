package config

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestDoWithBackoffSuccessFirstTry(t *testing.T) {
	mock := &mockRoundTripper{handler: func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200, Body: http.NoBody}, nil
	}}
	client := &http.Client{Transport: mock}
	req, _ := http.NewRequest("GET", "http://example.com", nil)

	resp, err := DoWithBackoff(context.Background(), client, req, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if mock.calls != 1 {
		t.Errorf("expected 1 call, got %d", mock.calls)
	}
}

func TestDoWithBackoffNoRetryOnClientError(t *testing.T) {
	mock := &mockRoundTripper{handler: func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 404, Body: http.NoBody}, nil
	}}
	client := &http.Client{Transport: mock}
	req, _ := http.NewRequest("GET", "http://example.com", nil)

	resp, err := DoWithBackoff(context.Background(), client, req, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("expected the 404 to be returned, got %d", resp.StatusCode)
	}
	if mock.calls != 1 {
		t.Errorf("4xx responses must not be retried, got %d calls", mock.calls)
	}
}

func TestDoWithBackoffExhaustsRetries(t *testing.T) {
	mock := &mockRoundTripper{handler: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("mock transport error")
	}}
	client := &http.Client{Transport: mock}
	req, _ := http.NewRequest("GET", "http://example.com", nil)

	_, err := DoWithBackoff(context.Background(), client, req, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "after 1 attempts") {
		t.Errorf("unexpected error message: %v", err)
	}
	if mock.calls != 1 {
		t.Errorf("expected 1 call with no retries, got %d", mock.calls)
	}
}

func TestDoWithBackoffRetriesOnServerError(t *testing.T) {
	mock := &mockRoundTripper{}
	mock.handler = func(req *http.Request) (*http.Response, error) {
		if mock.calls == 1 {
			return &http.Response{StatusCode: 500, Body: http.NoBody}, nil
		}
		return &http.Response{StatusCode: 200, Body: http.NoBody}, nil
	}
	client := &http.Client{Transport: mock}
	req, _ := http.NewRequest("GET", "http://example.com", nil)

	resp, err := DoWithBackoff(context.Background(), client, req, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected eventual success, got %d", resp.StatusCode)
	}
	if mock.calls != 2 {
		t.Errorf("expected 2 calls, got %d", mock.calls)
	}
}

func TestDoWithBackoffContextCanceled(t *testing.T) {
	mock := &mockRoundTripper{handler: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("fail")
	}}
	client := &http.Client{Transport: mock}
	req, _ := http.NewRequest("GET", "http://example.com", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := DoWithBackoff(ctx, client, req, 3)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context deadline error, got %v", err)
	}
}

func TestBackoffDelayGrowthIsCapped(t *testing.T) {
	delay := BASE_BACKOFF
	for i := 0; i < 20; i++ {
		delay = nextBackoffDelay(delay)
		if delay > MAX_BACKOFF {
			t.Fatalf("delay exceeded cap: %v", delay)
		}
	}
	if delay != MAX_BACKOFF {
		t.Errorf("expected delay to settle at the cap, got %v", delay)
	}
}

func TestWithJitterBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := withJitter(BASE_BACKOFF)
		if d < BASE_BACKOFF || d > BASE_BACKOFF+time.Duration(float64(BASE_BACKOFF)*JITTER_FACTOR) {
			t.Fatalf("jittered delay out of bounds: %v", d)
		}
	}
}
