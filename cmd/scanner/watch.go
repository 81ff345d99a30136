package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"BreakoutScanner/internal/logger"
	"BreakoutScanner/internal/scheduler"
)

var watchCMD = &cobra.Command{
	Use:   "watch",
	Short: "Run scans on the configured cron schedule until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatter(outputFormat, diagnostics)
		if err != nil {
			return err
		}
		cfg, s, err := setup()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sched := scheduler.NewScheduler(ctx, s, format, os.Stdout, s.Segmenter.Location())
		if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
			return err
		}
		sched.Start()

		if os.Getenv("RUN_ON_START") == "true" {
			logger.Info("RUN_ON_START enabled, executing scan now")
			go sched.RunNow()
		}

		logger.Info("watching on %q. Press Ctrl+C to stop.", cfg.Schedule.ScanCron)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutdown signal received, stopping...")
		cancel()
		sched.Stop()
		return nil
	},
}

func init() {
	watchCMD.Flags().StringVar(&outputFormat, "format", "text", "output format: text or json")
	watchCMD.Flags().BoolVar(&diagnostics, "diagnostics", false, "include non-matches, filtered and skipped tickers in text output")
}
