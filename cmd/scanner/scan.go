package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"BreakoutScanner/internal/model"
	"BreakoutScanner/internal/report"
)

var (
	outputFormat string
	diagnostics  bool
)

var scanCMD = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan and print the report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatter(outputFormat, diagnostics)
		if err != nil {
			return err
		}
		_, s, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r, err := s.Run(ctx)
		if err != nil {
			return fmt.Errorf("unable to scan: %w", err)
		}
		out, err := format(r)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	scanCMD.Flags().StringVar(&outputFormat, "format", "text", "output format: text or json")
	scanCMD.Flags().BoolVar(&diagnostics, "diagnostics", false, "include non-matches, filtered and skipped tickers in text output")
}

func formatter(name string, diag bool) (func(*model.Report) ([]byte, error), error) {
	switch name {
	case "text":
		return func(r *model.Report) ([]byte, error) {
			return []byte(report.FormatText(r, diag)), nil
		}, nil
	case "json":
		return func(r *model.Report) ([]byte, error) {
			return report.FormatJSON(r)
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text or json)", name)
	}
}
