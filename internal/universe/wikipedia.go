package universe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// WikipediaProvider scrapes the S&P 500 constituents table.
type WikipediaProvider struct {
	URL    string
	Client *http.Client
}

// NewWikipediaProvider creates a provider with optional proxy support.
func NewWikipediaProvider(pageURL, proxyURL string, timeout time.Duration) *WikipediaProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &WikipediaProvider{
		URL: pageURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Tickers fetches the page and returns the first column of the constituents
// table. Header rows carry <th> cells only and are skipped.
func (p *WikipediaProvider) Tickers(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch universe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch universe: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse universe page: %w", err)
	}

	table := doc.Find("table#constituents").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("parse universe page: no table found")
	}

	var raw []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td").First()
		if cell.Length() == 0 {
			return
		}
		raw = append(raw, cell.Text())
	})

	tickers := NormalizeAll(raw)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("parse universe page: no tickers in table")
	}
	return tickers, nil
}
