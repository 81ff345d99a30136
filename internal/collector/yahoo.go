package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"BreakoutScanner/internal/model"
)

const (
	yahooBaseURL   = "https://query1.finance.yahoo.com"
	yahooCookieURL = "https://fc.yahoo.com"
)

// YahooFetcher implements BarFetcher and CapFetcher using Yahoo Finance public APIs.
// quoteSummary requires a session cookie plus a matching crumb; both are
// obtained on first use and refreshed when Yahoo rejects them.
type YahooFetcher struct {
	BaseURL   string
	CookieURL string
	Client    *http.Client

	mu    sync.Mutex
	crumb string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	jar, _ := cookiejar.New(nil)
	return &YahooFetcher{
		BaseURL:   yahooBaseURL,
		CookieURL: yahooCookieURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			Jar:       jar,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooSummary is the subset of the quoteSummary "price" module we read.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				MarketCap struct {
					Raw *float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

func at(vals []*float64, i int) (float64, bool) {
	if i >= len(vals) || vals[i] == nil {
		return 0, false
	}
	return *vals[i], true
}

// statusError is a non-200 Yahoo response. It classifies as a gateway failure.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: yahoo status %d, body: %.200s", model.ErrGatewayFailure, e.Code, e.Body)
}

func (e *statusError) Unwrap() error { return model.ErrGatewayFailure }

func isUnauthorized(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

func (f *YahooFetcher) fetch(ctx context.Context, u string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("yahoo read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (f *YahooFetcher) get(ctx context.Context, u string, out interface{}) error {
	code, body, err := f.fetch(ctx, u)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return &statusError{Code: code, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// FetchIntradayBars returns bars over the last lookbackDays, pre/post-market included.
func (f *YahooFetcher) FetchIntradayBars(ctx context.Context, symbol string, lookbackDays int, interval string) ([]model.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%dd&includePrePost=true",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(interval), lookbackDays)

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo api error: %s", model.ErrGatewayFailure, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, ok1 := at(quote.Open, i)
		h, ok2 := at(quote.High, i)
		l, ok3 := at(quote.Low, i)
		c, ok4 := at(quote.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue // null bars: no trades in the interval
		}
		v, _ := at(quote.Volume, i)
		bars = append(bars, model.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// sessionCrumb returns the cached crumb, obtaining a session cookie and a
// fresh crumb when none is cached. stale is a crumb Yahoo just rejected.
func (f *YahooFetcher) sessionCrumb(ctx context.Context, stale string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crumb != "" && f.crumb != stale {
		return f.crumb, nil
	}

	// The cookie endpoint answers 404 but still sets the session cookie.
	if _, _, err := f.fetch(ctx, f.CookieURL); err != nil {
		return "", fmt.Errorf("%w: yahoo cookie: %v", model.ErrGatewayFailure, err)
	}
	code, body, err := f.fetch(ctx, f.BaseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("%w: yahoo crumb: %v", model.ErrGatewayFailure, err)
	}
	crumb := strings.TrimSpace(string(body))
	if code != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", fmt.Errorf("%w: yahoo crumb status %d, body: %.200s", model.ErrGatewayFailure, code, crumb)
	}
	f.crumb = crumb
	return crumb, nil
}

func (f *YahooFetcher) summary(ctx context.Context, symbol, crumb string) (*yahooSummary, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price&crumb=%s",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(crumb))
	var summary yahooSummary
	if err := f.get(ctx, u, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// FetchCapitalization reads price.marketCap from the quoteSummary endpoint.
// A rejected crumb is refreshed once.
func (f *YahooFetcher) FetchCapitalization(ctx context.Context, symbol string) (float64, bool, error) {
	crumb, err := f.sessionCrumb(ctx, "")
	if err != nil {
		return 0, false, err
	}
	summary, err := f.summary(ctx, symbol, crumb)
	if isUnauthorized(err) {
		if crumb, err = f.sessionCrumb(ctx, crumb); err != nil {
			return 0, false, err
		}
		summary, err = f.summary(ctx, symbol, crumb)
	}
	if err != nil {
		return 0, false, err
	}
	if summary.QuoteSummary.Error != nil {
		return 0, false, fmt.Errorf("%w: yahoo api error: %s", model.ErrGatewayFailure, summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return 0, false, nil
	}
	raw := summary.QuoteSummary.Result[0].Price.MarketCap.Raw
	if raw == nil {
		return 0, false, nil
	}
	return *raw, true, nil
}
