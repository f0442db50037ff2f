package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fx-signal-bot/internal/config"
	"fx-signal-bot/internal/feed"
	"fx-signal-bot/internal/history"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/notify"
)

// initializeSystem loads the environment and brings up logging.
func initializeSystem() error {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldHistory gzips old history files if retention is configured.
func compressOldHistory(ctx context.Context) {
	if v := os.Getenv("HISTORY_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := history.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old history", "error", err)
		}
	}
}

// initializeFeed builds the configured price source behind the quote
// cache. The vendor API key is required.
func initializeFeed(ctx context.Context, cfg *config.Config) (feed.PriceSource, error) {
	var keyEnv string
	switch cfg.DataSource {
	case "ALPHAVANTAGE":
		keyEnv = "ALPHAVANTAGE_API_KEY"
	default:
		keyEnv = "TWELVEDATA_API_KEY"
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", keyEnv)
	}
	logger.Info(ctx, "Price source configured", "vendor", cfg.DataSource)
	return feed.Build(cfg, apiKey), nil
}

// initializeNotifier builds the configured notification channel.
func initializeNotifier(ctx context.Context, cfg *config.Config) (notify.Notifier, error) {
	switch cfg.Notify.Provider {
	case "TELEGRAM":
		token := os.Getenv("TELEGRAM_BOT_TOKEN")
		chatID := os.Getenv("TELEGRAM_CHAT_ID")
		if token == "" || chatID == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set")
		}
		return notify.NewTelegram(token, chatID), nil
	default:
		logger.Warn(ctx, "No notification provider configured, logging signals locally")
		return notify.NewLogNotifier(), nil
	}
}
