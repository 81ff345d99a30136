package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"BreakoutScanner/internal/model"
)

// DefaultMinMarketCap is the capitalization threshold used when none is configured.
const DefaultMinMarketCap = 50_000_000

// Config holds all application configuration.
type Config struct {
	Universe struct {
		SourceURL string   `yaml:"source_url"`
		Tickers   []string `yaml:"tickers"`
	} `yaml:"universe"`
	DataSource struct {
		Provider     string        `yaml:"provider"`
		Interval     string        `yaml:"interval"`
		LookbackDays int           `yaml:"lookback_days"`
		Timeout      time.Duration `yaml:"timeout"`
		AlpacaKey    string        `yaml:"alpaca_key"`
		AlpacaSecret string        `yaml:"alpaca_secret"`
		AlpacaFeed   string        `yaml:"alpaca_feed"`
	} `yaml:"data_source"`
	Scan struct {
		MinMarketCap *float64 `yaml:"min_market_cap"`
		RankBy       string   `yaml:"rank_by"`
		Workers      int      `yaml:"workers"`
	} `yaml:"scan"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.DataSource.AlpacaKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.DataSource.AlpacaSecret = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("MIN_MARKET_CAP"); v != "" {
		var minCap float64
		if _, err := fmt.Sscanf(v, "%f", &minCap); err == nil {
			cfg.Scan.MinMarketCap = &minCap
		}
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		var workers int
		if _, err := fmt.Sscanf(v, "%d", &workers); err == nil {
			cfg.Scan.Workers = workers
		}
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Defaults
	if cfg.Universe.SourceURL == "" {
		cfg.Universe.SourceURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "5m"
	}
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 3
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.DataSource.AlpacaFeed == "" {
		cfg.DataSource.AlpacaFeed = "iex"
	}
	if cfg.Scan.MinMarketCap == nil {
		minCap := float64(DefaultMinMarketCap)
		cfg.Scan.MinMarketCap = &minCap
	}
	if cfg.Scan.RankBy == "" {
		cfg.Scan.RankBy = string(model.RankByBreakout)
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 */15 8-15 * * 1-5"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	return cfg, nil
}

// MinMarketCap returns the configured capitalization threshold.
func (c *Config) MinMarketCap() float64 {
	if c.Scan.MinMarketCap == nil {
		return DefaultMinMarketCap
	}
	return *c.Scan.MinMarketCap
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "alpaca":
		if c.DataSource.AlpacaKey == "" || c.DataSource.AlpacaSecret == "" {
			return fmt.Errorf("data_source.alpaca_key and alpaca_secret are required for provider alpaca")
		}
	default:
		return fmt.Errorf("data_source.provider must be one of: yahoo, alpaca")
	}
	if c.DataSource.LookbackDays < 2 {
		return fmt.Errorf("data_source.lookback_days must be at least 2")
	}
	if c.DataSource.Timeout <= 0 {
		return fmt.Errorf("data_source.timeout must be positive")
	}
	if !strings.HasSuffix(c.DataSource.Interval, "m") && !strings.HasSuffix(c.DataSource.Interval, "h") {
		return fmt.Errorf("data_source.interval must be an intraday interval like 5m or 1h")
	}
	if c.MinMarketCap() < 0 {
		return fmt.Errorf("scan.min_market_cap must not be negative")
	}
	switch model.RankKey(c.Scan.RankBy) {
	case model.RankByBreakout, model.RankByCapitalization:
	default:
		return fmt.Errorf("scan.rank_by must be one of: breakout, capitalization")
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1")
	}
	if len(c.Universe.Tickers) == 0 && c.Universe.SourceURL == "" {
		return fmt.Errorf("universe.source_url or universe.tickers is required")
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	return nil
}
