package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"

	"BreakoutScanner/internal/model"
)

// FormatText renders the report as a plain-text table. Diagnostics (non-matches,
// filtered and skipped tickers) are appended when requested.
func FormatText(r *model.Report, diagnostics bool) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Breakout scan %s | %s | %d tickers | ranked by %s\n",
		r.ScanID, r.FinishedAt.Format("2006-01-02 15:04 MST"), r.UniverseSize, r.RankBy))
	b.WriteString(fmt.Sprintf("Status: %s\n\n", r.Status))

	if len(r.Matches) == 0 {
		b.WriteString("No stocks meet the criteria right now.\n")
	} else {
		b.WriteString(fmt.Sprintf("Found %d matches:\n", len(r.Matches)))
		b.WriteString(fmt.Sprintf("  %-8s %10s %12s %10s %10s %15s\n",
			"Ticker", "Price", "Prev IB High", "ON High", "Breakout %", "Market Cap ($B)"))
		for _, m := range r.Matches {
			b.WriteString(fmt.Sprintf("  %-8s %10.2f %12.2f %10.2f %+10.2f %15s\n",
				m.Ticker, m.Price, m.PrevInitialBalanceHigh, m.OvernightHigh, m.BreakoutPercent, FormatMarketCap(m)))
		}
	}

	if !diagnostics {
		return b.String()
	}

	b.WriteString(fmt.Sprintf("\nNon-matches (%d):\n", len(r.NonMatches)))
	for _, n := range r.NonMatches {
		b.WriteString(fmt.Sprintf("  %-8s price %.2f  prev IB high %.2f  ON high %.2f  failed %s\n",
			n.Ticker, n.Price, n.PrevInitialBalanceHigh, n.OvernightHigh, n.FailedLeg))
	}
	b.WriteString(fmt.Sprintf("\nFiltered by market cap (%d): %s\n", len(r.Filtered), strings.Join(r.Filtered, ", ")))
	b.WriteString(fmt.Sprintf("\nSkipped (%d):\n", len(r.Skipped)))
	for _, s := range r.Skipped {
		b.WriteString(fmt.Sprintf("  %-8s %-16s %s\n", s.Ticker, s.Kind, s.Reason))
	}
	return b.String()
}

// FormatMarketCap renders capitalization in billions, or "unknown".
func FormatMarketCap(m model.BreakoutResult) string {
	if !m.MarketCapKnown {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", m.MarketCap/1e9)
}

// FormatJSON renders the report as indented JSON.
func FormatJSON(r *model.Report) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return pretty.Pretty(data), nil
}
