package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fx-signal-bot/internal/api"
)

func testAlphaVantage(t *testing.T, handler http.HandlerFunc) *AlphaVantage {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &AlphaVantage{
		client:  api.NewClient(api.WithBaseURL(srv.URL), api.WithTimeout(2*time.Second)),
		apiKey:  "test-key",
		limiter: newVendorLimiter(6000),
	}
}

func TestAlphaVantageSeriesSorted(t *testing.T) {
	av := testAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("from_symbol"); got != "EUR" {
			t.Errorf("from_symbol = %q", got)
		}
		if got := r.URL.Query().Get("to_symbol"); got != "USD" {
			t.Errorf("to_symbol = %q", got)
		}
		// Map order is not chronological on purpose.
		w.Write([]byte(`{"Time Series FX (5min)":{
			"2025-01-01 00:05:00":{"4. close":"1.1002"},
			"2025-01-01 00:00:00":{"4. close":"1.1001"},
			"2025-01-01 00:10:00":{"4. close":"1.1003"}
		}}`))
	})

	closes, err := av.GetSeries(context.Background(), "EUR/USD", 5, 2)
	if err != nil {
		t.Fatalf("GetSeries: %v", err)
	}
	// count=2 keeps the most recent two, chronological.
	if len(closes) != 2 || closes[0] != 1.1002 || closes[1] != 1.1003 {
		t.Errorf("closes = %v", closes)
	}
}

func TestAlphaVantageSeriesMissingKey(t *testing.T) {
	av := testAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note":"API call frequency exceeded"}`))
	})
	if _, err := av.GetSeries(context.Background(), "EUR/USD", 5, 21); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestAlphaVantageLatest(t *testing.T) {
	av := testAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Realtime Currency Exchange Rate":{"5. Exchange Rate":"1.10250"}}`))
	})
	price, err := av.GetLatest(context.Background(), "EUR/USD")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if price != 1.1025 {
		t.Errorf("price = %v", price)
	}
}

func TestAlphaVantageMalformedPair(t *testing.T) {
	av := testAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be made for a malformed pair")
	})
	if _, err := av.GetLatest(context.Background(), "EURUSD"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
