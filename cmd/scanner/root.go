package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"BreakoutScanner/internal/collector"
	"BreakoutScanner/internal/config"
	"BreakoutScanner/internal/logger"
	"BreakoutScanner/internal/model"
	"BreakoutScanner/internal/scanner"
	"BreakoutScanner/internal/session"
	"BreakoutScanner/internal/strategy"
	"BreakoutScanner/internal/universe"
)

var cfgPath string

var rootCMD = &cobra.Command{
	Use:   "scanner",
	Short: "Intraday breakout screener",
	Long: `Scans a ticker universe for stocks trading above both the previous
session's initial-balance high and today's overnight high.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	err := rootCMD.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCMD.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "path to the YAML config file")
	rootCMD.AddCommand(scanCMD, watchCMD)
}

// setup loads config, initializes logging and builds a scanner.
func setup() (*config.Config, *scanner.Scanner, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	yahoo := collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
	var bars collector.BarFetcher = yahoo
	if cfg.DataSource.Provider == "alpaca" {
		bars = collector.NewAlpacaFetcher(cfg.DataSource.AlpacaKey, cfg.DataSource.AlpacaSecret, cfg.DataSource.AlpacaFeed)
	}
	logger.Info("data source: %s", bars.Name())

	var u universe.Provider
	if len(cfg.Universe.Tickers) > 0 {
		u = universe.StaticProvider{Symbols: cfg.Universe.Tickers}
	} else {
		u = universe.NewWikipediaProvider(cfg.Universe.SourceURL, cfg.Proxy, cfg.DataSource.Timeout)
	}

	seg, err := session.NewSegmenter(session.ReferenceTimezone)
	if err != nil {
		return nil, nil, err
	}

	s := scanner.New(u, bars, yahoo, seg)
	s.Filter = strategy.NewCapitalizationFilter(cfg.MinMarketCap())
	s.RankBy = model.RankKey(cfg.Scan.RankBy)
	s.Workers = cfg.Scan.Workers
	s.Timeout = cfg.DataSource.Timeout
	s.LookbackDays = cfg.DataSource.LookbackDays
	s.Interval = cfg.DataSource.Interval
	s.Progress = scanner.ProgressFunc(func(ticker string, index, total int) {
		logger.Debug("scanning %s (%d/%d)", ticker, index, total)
	})
	return cfg, s, nil
}
