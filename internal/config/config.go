package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Pairs      []string `yaml:"pairs"`
	Timezone   string   `yaml:"timezone"`
	DataSource string   `yaml:"data_source"`

	IntervalMinutes int `yaml:"interval_minutes"`
	HistorySize     int `yaml:"history_size"`
	MinHistory      int `yaml:"min_history"`

	OpenIntervalSeconds  int `yaml:"open_interval_seconds"`
	CloseIntervalSeconds int `yaml:"close_interval_seconds"`
	HoldingPeriodSeconds int `yaml:"holding_period_seconds"`

	// TiePolicy decides what happens when a matured signal sits between
	// tp and sl: CLOSE sends a TIE result and removes it, RETRY keeps it
	// open for the next tick.
	TiePolicy string `yaml:"tie_policy"`

	Strategy struct {
		Mode         string  `yaml:"mode"`
		RSIPeriod    int     `yaml:"rsi_period"`
		ATRPeriod    int     `yaml:"atr_period"`
		RSIBuyBelow  float64 `yaml:"rsi_buy_below"`
		RSISellAbove float64 `yaml:"rsi_sell_above"`
		MinMove      float64 `yaml:"min_move"`
	} `yaml:"strategy"`

	TPMultiplier float64 `yaml:"tp_multiplier"`
	SLMultiplier float64 `yaml:"sl_multiplier"`
	MinATR       float64 `yaml:"min_atr"`

	Ticks struct {
		Default float64            `yaml:"default"`
		JPY     float64            `yaml:"jpy"`
		PerPair map[string]float64 `yaml:"per_pair"`
	} `yaml:"ticks"`

	StorePath          string `yaml:"store_path"`
	CacheTTLSeconds    int    `yaml:"cache_ttl_seconds"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`

	Web struct {
		Addr string `yaml:"addr"`
	} `yaml:"web"`

	Notify struct {
		Provider string `yaml:"provider"`
	} `yaml:"notify"`
}

func (c *Config) Validate() error {
	if len(c.Pairs) == 0 {
		return errors.New("pairs cannot be empty")
	}
	switch c.DataSource {
	case "TWELVEDATA", "ALPHAVANTAGE":
	default:
		return fmt.Errorf("invalid data_source '%s': must be 'TWELVEDATA' or 'ALPHAVANTAGE'", c.DataSource)
	}
	switch c.Strategy.Mode {
	case "RSI_ATR", "MOMENTUM", "CANDLE":
	default:
		return fmt.Errorf("invalid strategy.mode '%s': must be 'RSI_ATR', 'MOMENTUM', or 'CANDLE'", c.Strategy.Mode)
	}
	if c.TiePolicy != "CLOSE" && c.TiePolicy != "RETRY" {
		return fmt.Errorf("invalid tie_policy '%s': must be 'CLOSE' or 'RETRY'", c.TiePolicy)
	}
	switch c.Notify.Provider {
	case "TELEGRAM", "LOG":
	default:
		return fmt.Errorf("invalid notify.provider '%s': must be 'TELEGRAM' or 'LOG'", c.Notify.Provider)
	}
	if c.TPMultiplier <= 0 || c.SLMultiplier <= 0 {
		return fmt.Errorf("tp_multiplier and sl_multiplier must be positive, got %.2f/%.2f", c.TPMultiplier, c.SLMultiplier)
	}
	if c.MinHistory < c.Strategy.RSIPeriod+1 {
		return fmt.Errorf("min_history %d is below rsi_period+1 (%d)", c.MinHistory, c.Strategy.RSIPeriod+1)
	}
	if c.HistorySize < c.MinHistory {
		return fmt.Errorf("history_size %d is below min_history %d", c.HistorySize, c.MinHistory)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return nil
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = "America/Lima"
	}
	if c.DataSource == "" {
		c.DataSource = "TWELVEDATA"
	}
	if c.IntervalMinutes == 0 {
		c.IntervalMinutes = 5
	}
	if c.HistorySize == 0 {
		c.HistorySize = 21
	}
	if c.MinHistory == 0 {
		c.MinHistory = 15
	}
	if c.OpenIntervalSeconds == 0 {
		c.OpenIntervalSeconds = 300
	}
	if c.CloseIntervalSeconds == 0 {
		c.CloseIntervalSeconds = 30
	}
	if c.HoldingPeriodSeconds == 0 {
		c.HoldingPeriodSeconds = 300
	}
	if c.TiePolicy == "" {
		c.TiePolicy = "CLOSE"
	}
	if c.Strategy.Mode == "" {
		c.Strategy.Mode = "RSI_ATR"
	}
	if c.Strategy.RSIPeriod == 0 {
		c.Strategy.RSIPeriod = 14
	}
	if c.Strategy.ATRPeriod == 0 {
		c.Strategy.ATRPeriod = 14
	}
	if c.Strategy.RSIBuyBelow == 0 {
		c.Strategy.RSIBuyBelow = 30
	}
	if c.Strategy.RSISellAbove == 0 {
		c.Strategy.RSISellAbove = 70
	}
	if c.Strategy.MinMove == 0 {
		c.Strategy.MinMove = 0.00015
	}
	if c.TPMultiplier == 0 {
		c.TPMultiplier = 1.5
	}
	if c.SLMultiplier == 0 {
		c.SLMultiplier = 1.0
	}
	if c.Ticks.Default == 0 {
		c.Ticks.Default = 0.0001
	}
	if c.Ticks.JPY == 0 {
		c.Ticks.JPY = 0.01
	}
	if c.StorePath == "" {
		c.StorePath = "data/signals.json"
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 30
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 8
	}
	if c.Web.Addr == "" {
		c.Web.Addr = ":8080"
	}
	if c.Notify.Provider == "" {
		c.Notify.Provider = "TELEGRAM"
	}
}

// Tick returns the minimum price increment for a pair: per-pair override,
// then the JPY rule, then the default.
func (c *Config) Tick(pair string) float64 {
	if v, ok := c.Ticks.PerPair[pair]; ok && v > 0 {
		return v
	}
	if JPYQuoted(pair) {
		return c.Ticks.JPY
	}
	return c.Ticks.Default
}

// Decimals returns the display precision for a pair's prices.
func (c *Config) Decimals(pair string) int {
	if JPYQuoted(pair) {
		return 3
	}
	return 5
}

func (c *Config) HoldingPeriod() time.Duration {
	return time.Duration(c.HoldingPeriodSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Location resolves the configured timezone; Validate has already
// checked it, so failures here fall back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// JPYQuoted reports whether a pair is quoted in yen, which trades with a
// hundredth tick instead of a pip.
func JPYQuoted(pair string) bool {
	return strings.HasSuffix(strings.ToUpper(pair), "JPY")
}
