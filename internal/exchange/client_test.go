package exchange

import (
	"context"
	"errors"
	"finance-tracker/internal/config"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(srv *httptest.Server, retries uint64) *Client {
	c := NewClient(config.Config{
		ExchangeAPIKey:  "test-key",
		ExchangeBaseURL: srv.URL + "/v6/",
		ExchangeTimeout: time.Second,
		ExchangeRetries: retries,
	}, srv.Client())
	c.backoff = time.Millisecond
	return c
}

func TestRateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/test-key/pair/EUR/USD" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","conversion_rate":1.0842,"time_last_update_utc":"Fri, 15 Mar 2024 00:00:01 +0000"}`))
	}))
	defer srv.Close()

	rate, err := newTestClient(srv, 0).Rate(context.Background(), "EUR", "USD")
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if rate.From != "EUR" || rate.To != "USD" || rate.Rate != 1.0842 {
		t.Fatalf("unexpected rate: %+v", rate)
	}
	if rate.LastUpdated != "Fri, 15 Mar 2024 00:00:01 +0000" {
		t.Fatalf("unexpected last_updated: %q", rate.LastUpdated)
	}
}

func TestRateProviderRejectsPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, 0).Rate(context.Background(), "EUR", "XXX")
	if !errors.Is(err, ErrInvalidPair) {
		t.Fatalf("expected ErrInvalidPair, got %v", err)
	}
}

func TestRateProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestClient(srv, 0).Rate(context.Background(), "EUR", "USD")
			if !errors.Is(err, ErrProvider) {
				t.Fatalf("expected ErrProvider, got %v", err)
			}
		})
	}
}

func TestRateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestClient(srv, 0)
	srv.Close()

	_, err := c.Rate(context.Background(), "EUR", "USD")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestRateMissingAPIKey(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := newTestClient(srv, 0)
	c.apiKey = ""
	if _, err := c.Rate(context.Background(), "EUR", "USD"); !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("no request expected without api key")
	}
}

func TestRateRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"result":"success","conversion_rate":0.5,"time_last_update_utc":"now"}`))
	}))
	defer srv.Close()

	rate, err := newTestClient(srv, 2).Rate(context.Background(), "USD", "GBP")
	if err != nil {
		t.Fatalf("Rate with retries: %v", err)
	}
	if rate.Rate != 0.5 || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("rate=%v calls=%d", rate.Rate, calls)
	}
}

func TestRateNoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv, 0).Rate(context.Background(), "USD", "GBP"); err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected a single call, got %d", n)
	}
}
