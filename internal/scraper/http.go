package scraper

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
)

const (
	DefaultTimeout = 10 * time.Second
	// MaxBodyBytes bounds how much of a page is parsed. Extraction only
	// keeps a few thousand characters, so the tail of a larger page is dropped.
	MaxBodyBytes int64 = 2 << 20
)

// HTTPFetcher scrapes static HTML with a plain GET.
type HTTPFetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{client: &http.Client{}, timeout: timeout, maxBytes: MaxBodyBytes}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (revenue.ScrapedWebsite, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return failed(err)
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return failed(err)
	}
	req.Header.Set("User-Agent", UserAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return failed(classify(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(&StatusError{Code: resp.StatusCode})
	}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return failed(classify(ctx, err))
	}
	return Extract(doc), nil
}
