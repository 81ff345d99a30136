// Package universe produces the ordered list of tickers to scan.
package universe

import (
	"context"
	"regexp"
	"strings"
)

// Provider yields the tickers for one scan.
type Provider interface {
	Tickers(ctx context.Context) ([]string, error)
}

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,5}(-[A-Z0-9]{1,2})?$`)

// Normalize conforms a raw symbol to the data gateway's convention:
// trimmed, uppercase, class-share dots as dashes. ok is false when the
// result does not look like a ticker.
func Normalize(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "-")
	if s == "SYMBOL" || !symbolPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

// NormalizeAll normalizes, drops invalid entries and de-duplicates, keeping order.
func NormalizeAll(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		s, ok := Normalize(r)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// StaticProvider serves a fixed, configured list.
type StaticProvider struct {
	Symbols []string
}

func (p StaticProvider) Tickers(_ context.Context) ([]string, error) {
	return NormalizeAll(p.Symbols), nil
}
