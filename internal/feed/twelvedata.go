package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"fx-signal-bot/internal/api"
	"fx-signal-bot/internal/logger"
)

const twelveDataBaseURL = "https://api.twelvedata.com"

// TwelveData fetches FX candles and quotes from the Twelve Data REST API.
type TwelveData struct {
	client  *api.Client
	apiKey  string
	limiter *rate.Limiter
}

func NewTwelveData(apiKey string, callsPerMinute int) *TwelveData {
	return &TwelveData{
		client:  api.NewClient(api.WithBaseURL(twelveDataBaseURL), api.WithTimeout(15*time.Second)),
		apiKey:  apiKey,
		limiter: newVendorLimiter(callsPerMinute),
	}
}

type twelveDataSeries struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Close    string `json:"close"`
	} `json:"values"`
}

type twelveDataPrice struct {
	Price string `json:"price"`
}

func (t *TwelveData) GetSeries(ctx context.Context, pair string, intervalMin, count int) ([]float64, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("symbol", pair)
	q.Set("interval", fmt.Sprintf("%dmin", intervalMin))
	q.Set("outputsize", strconv.Itoa(count))
	q.Set("apikey", t.apiKey)

	resp, err := t.client.GETWithRetry(ctx, "/time_series?"+q.Encode(), nil)
	if err != nil {
		logger.Warn(ctx, "Twelve Data series request failed", "pair", pair, "error", err)
		return nil, ErrUnavailable
	}
	var payload twelveDataSeries
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, ErrUnavailable
	}
	if payload.Status == "error" || len(payload.Values) == 0 {
		logger.Warn(ctx, "Twelve Data returned no series", "pair", pair, "message", payload.Message)
		return nil, ErrUnavailable
	}

	// Values arrive newest first; the engine wants chronological order.
	closes := make([]float64, 0, len(payload.Values))
	for i := len(payload.Values) - 1; i >= 0; i-- {
		v, err := strconv.ParseFloat(payload.Values[i].Close, 64)
		if err != nil {
			return nil, ErrUnavailable
		}
		closes = append(closes, v)
	}
	return closes, nil
}

func (t *TwelveData) GetLatest(ctx context.Context, pair string) (float64, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	q := url.Values{}
	q.Set("symbol", pair)
	q.Set("apikey", t.apiKey)

	resp, err := t.client.GETWithRetry(ctx, "/price?"+q.Encode(), nil)
	if err != nil {
		logger.Warn(ctx, "Twelve Data price request failed", "pair", pair, "error", err)
		return 0, ErrUnavailable
	}
	var payload twelveDataPrice
	if err := resp.ParseJSON(&payload); err != nil {
		return 0, ErrUnavailable
	}
	price, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil || price <= 0 {
		return 0, ErrUnavailable
	}
	return price, nil
}

func newVendorLimiter(callsPerMinute int) *rate.Limiter {
	if callsPerMinute <= 0 {
		callsPerMinute = 8
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(callsPerMinute)), callsPerMinute)
}
