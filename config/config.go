// Package config exposes the typed, immutable configuration every component
// receives through its constructor. There is no implicit global lookup.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Exchange describes the trading venue and account settings.
type Exchange struct {
	Name           string  `yaml:"name"`
	APIKey         string  `yaml:"api_key"`
	APISecret      string  `yaml:"api_secret"`
	Simulate       bool    `yaml:"simulate"`
	InitialBalance float64 `yaml:"initial_balance"`
}

// Trading holds the signal-detection parameters.
type Trading struct {
	Pairs                 []string `yaml:"pairs"`
	Timeframe             string   `yaml:"timeframe"`
	CandleLimit           int      `yaml:"candle_limit"`
	RSIPeriod             int      `yaml:"rsi_period"`
	RSIOversold           float64  `yaml:"rsi_oversold"`
	RSIOverbought         float64  `yaml:"rsi_overbought"`
	ExtremaWindow         int      `yaml:"extrema_window"`
	MinDivergenceStrength float64  `yaml:"min_divergence_strength"`
}

// Risk holds the position-sizing and exit parameters.
type Risk struct {
	MaxPositionSize   float64 `yaml:"max_position_size"` // fraction of balance per position
	StopLossPct       float64 `yaml:"stop_loss_pct"`
	TakeProfitPct     float64 `yaml:"take_profit_pct"`
	MinQty            float64 `yaml:"min_qty"`
	QuantityPrecision int     `yaml:"quantity_precision"`
	MinConfidence     float64 `yaml:"min_confidence"` // gate for plain BUY/SELL signals
}

// App captures process-wide runtime settings.
type App struct {
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`
	Interval    string `yaml:"interval"` // cycle cadence, e.g. "1h"
}

// Config collects every configuration leaf.
type Config struct {
	App      App      `yaml:"app"`
	Exchange Exchange `yaml:"exchange"`
	Trading  Trading  `yaml:"trading"`
	Risk     Risk     `yaml:"risk"`
}

// Default returns the stock configuration: one pair, hourly cadence,
// simulation mode.
func Default() Config {
	return Config{
		App: App{
			LogLevel: "info",
			Interval: "1h",
		},
		Exchange: Exchange{
			Name:           "binance",
			Simulate:       true,
			InitialBalance: 1000,
		},
		Trading: Trading{
			Pairs:                 []string{"BTC/USDT"},
			Timeframe:             "1h",
			CandleLimit:           100,
			RSIPeriod:             14,
			RSIOversold:           30,
			RSIOverbought:         70,
			ExtremaWindow:         5,
			MinDivergenceStrength: 0.7,
		},
		Risk: Risk{
			MaxPositionSize:   0.01,
			StopLossPct:       0.02,
			TakeProfitPct:     0.04,
			MinQty:            0.001,
			QuantityPrecision: 6,
			MinConfidence:     0.7,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays API credentials from the environment, loading a .env
// file first if one exists.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()
	if v := os.Getenv("API_KEY"); v != "" {
		c.Exchange.APIKey = v
	}
	if v := os.Getenv("API_SECRET"); v != "" {
		c.Exchange.APISecret = v
	}
}

// CycleInterval parses the configured cadence.
func (c *Config) CycleInterval() (time.Duration, error) {
	if c.App.Interval == "" {
		return time.Hour, nil
	}
	return time.ParseDuration(c.App.Interval)
}

// Validate checks that all fields are within sensible bounds, returning the
// first violation so the caller can surface a clear configuration problem
// before any trading starts.
func (c *Config) Validate() error {
	if len(c.Trading.Pairs) == 0 {
		return errors.New("at least one trading pair must be specified")
	}
	for _, p := range c.Trading.Pairs {
		if p == "" {
			return errors.New("trading pairs cannot be empty strings")
		}
	}
	if c.Trading.RSIPeriod <= 0 {
		return errors.New("RSIPeriod must be positive")
	}
	if !(0 < c.Trading.RSIOversold && c.Trading.RSIOversold < c.Trading.RSIOverbought && c.Trading.RSIOverbought < 100) {
		return errors.New("RSI thresholds must satisfy 0 < oversold < overbought < 100")
	}
	if c.Trading.ExtremaWindow < 1 {
		return errors.New("ExtremaWindow must be at least 1")
	}
	if c.Trading.MinDivergenceStrength < 0 {
		return errors.New("MinDivergenceStrength cannot be negative")
	}
	if c.Trading.CandleLimit <= c.Trading.RSIPeriod {
		return fmt.Errorf("CandleLimit (%d) must exceed RSIPeriod (%d)", c.Trading.CandleLimit, c.Trading.RSIPeriod)
	}
	if c.Risk.MaxPositionSize <= 0 || c.Risk.MaxPositionSize > 1 {
		return fmt.Errorf("MaxPositionSize (%f) must be >0 and <=1", c.Risk.MaxPositionSize)
	}
	if c.Risk.StopLossPct <= 0 || c.Risk.StopLossPct >= 1 {
		return fmt.Errorf("StopLossPct (%f) must be >0 and <1", c.Risk.StopLossPct)
	}
	if c.Risk.TakeProfitPct <= 0 || c.Risk.TakeProfitPct >= 1 {
		return fmt.Errorf("TakeProfitPct (%f) must be >0 and <1", c.Risk.TakeProfitPct)
	}
	if c.Risk.MinQty < 0 {
		return errors.New("MinQty cannot be negative")
	}
	if c.Risk.QuantityPrecision < 0 {
		return errors.New("QuantityPrecision cannot be negative")
	}
	if c.Risk.MinConfidence < 0 || c.Risk.MinConfidence > 1 {
		return errors.New("MinConfidence must be between 0 and 1")
	}
	if c.Exchange.InitialBalance < 0 {
		return errors.New("InitialBalance cannot be negative")
	}
	if !c.Exchange.Simulate && (c.Exchange.APIKey == "" || c.Exchange.APISecret == "") {
		return errors.New("API key and secret are required for live trading")
	}
	if _, err := c.CycleInterval(); err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}
	return nil
}

// Warnings reports non-fatal oddities worth logging at startup.
func (c *Config) Warnings() []string {
	var out []string
	if c.Exchange.Simulate && c.Exchange.APIKey == "" {
		out = append(out, "API credentials not set - running in simulation mode")
	}
	if c.Risk.MinConfidence > 0.6 {
		out = append(out, "plain BUY/SELL signals carry confidence 0.6 and will never execute at the configured MinConfidence")
	}
	return out
}
