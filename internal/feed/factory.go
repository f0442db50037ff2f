package feed

import "fx-signal-bot/internal/config"

// Build returns the configured price source wrapped in the TTL quote
// cache.
func Build(cfg *config.Config, apiKey string) PriceSource {
	var src PriceSource
	switch cfg.DataSource {
	case "ALPHAVANTAGE":
		src = NewAlphaVantage(apiKey, cfg.RateLimitPerMinute)
	default:
		src = NewTwelveData(apiKey, cfg.RateLimitPerMinute)
	}
	return NewCachedSource(src, cfg.CacheTTL())
}
