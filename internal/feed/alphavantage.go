package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fx-signal-bot/internal/api"
	"fx-signal-bot/internal/logger"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantage fetches FX candles and quotes from the Alpha Vantage
// query API.
type AlphaVantage struct {
	client  *api.Client
	apiKey  string
	limiter *rate.Limiter
}

func NewAlphaVantage(apiKey string, callsPerMinute int) *AlphaVantage {
	return &AlphaVantage{
		client:  api.NewClient(api.WithBaseURL(alphaVantageBaseURL), api.WithTimeout(20*time.Second)),
		apiKey:  apiKey,
		limiter: newVendorLimiter(callsPerMinute),
	}
}

// splitPair breaks "EUR/USD" into its two currency codes.
func splitPair(pair string) (string, string, error) {
	parts := strings.Split(pair, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed pair %q", pair)
	}
	return parts[0], parts[1], nil
}

func (a *AlphaVantage) GetSeries(ctx context.Context, pair string, intervalMin, count int) ([]float64, error) {
	from, to, err := splitPair(pair)
	if err != nil {
		return nil, ErrUnavailable
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	interval := fmt.Sprintf("%dmin", intervalMin)
	q := url.Values{}
	q.Set("function", "FX_INTRADAY")
	q.Set("from_symbol", from)
	q.Set("to_symbol", to)
	q.Set("interval", interval)
	q.Set("outputsize", "compact")
	q.Set("apikey", a.apiKey)

	resp, err := a.client.GETWithRetry(ctx, "/query?"+q.Encode(), nil)
	if err != nil {
		logger.Warn(ctx, "Alpha Vantage series request failed", "pair", pair, "error", err)
		return nil, ErrUnavailable
	}

	var payload map[string]json.RawMessage
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, ErrUnavailable
	}
	raw, ok := payload[fmt.Sprintf("Time Series FX (%s)", interval)]
	if !ok {
		logger.Warn(ctx, "Alpha Vantage returned no series", "pair", pair)
		return nil, ErrUnavailable
	}
	var bars map[string]struct {
		Close string `json:"4. close"`
	}
	if err := json.Unmarshal(raw, &bars); err != nil || len(bars) == 0 {
		return nil, ErrUnavailable
	}

	// Bars are keyed by timestamp; sorting the keys yields chronological
	// order.
	stamps := make([]string, 0, len(bars))
	for ts := range bars {
		stamps = append(stamps, ts)
	}
	sort.Strings(stamps)

	closes := make([]float64, 0, len(stamps))
	for _, ts := range stamps {
		v, err := strconv.ParseFloat(bars[ts].Close, 64)
		if err != nil {
			return nil, ErrUnavailable
		}
		closes = append(closes, v)
	}
	if len(closes) > count {
		closes = closes[len(closes)-count:]
	}
	return closes, nil
}

type alphaVantageRate struct {
	Rate struct {
		ExchangeRate string `json:"5. Exchange Rate"`
	} `json:"Realtime Currency Exchange Rate"`
}

func (a *AlphaVantage) GetLatest(ctx context.Context, pair string) (float64, error) {
	from, to, err := splitPair(pair)
	if err != nil {
		return 0, ErrUnavailable
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	q := url.Values{}
	q.Set("function", "CURRENCY_EXCHANGE_RATE")
	q.Set("from_currency", from)
	q.Set("to_currency", to)
	q.Set("apikey", a.apiKey)

	resp, err := a.client.GETWithRetry(ctx, "/query?"+q.Encode(), nil)
	if err != nil {
		logger.Warn(ctx, "Alpha Vantage rate request failed", "pair", pair, "error", err)
		return 0, ErrUnavailable
	}
	var payload alphaVantageRate
	if err := resp.ParseJSON(&payload); err != nil {
		return 0, ErrUnavailable
	}
	price, err := strconv.ParseFloat(payload.Rate.ExchangeRate, 64)
	if err != nil || price <= 0 {
		return 0, ErrUnavailable
	}
	return price, nil
}
