package scraper

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
)

// ChromeFetcher renders the page in headless Chrome before extracting, for
// landing pages that build their copy client-side.
type ChromeFetcher struct {
	chromePath string
	timeout    time.Duration
	settle     time.Duration
}

// NewChromeFetcher uses chromeBin when set, otherwise whatever chromedp
// resolves from PATH.
func NewChromeFetcher(chromeBin string, timeout time.Duration) *ChromeFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ChromeFetcher{chromePath: chromeBin, timeout: timeout, settle: 500 * time.Millisecond}
}

func (f *ChromeFetcher) Fetch(ctx context.Context, rawURL string) (revenue.ScrapedWebsite, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return failed(err)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	if f.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(f.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, opts...)
	defer allocCancel()
	taskCtx, taskCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer taskCancel()

	var html string
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(u.String()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return failed(classify(timeoutCtx, err))
	}
	s, err := ExtractHTML(html)
	if err != nil {
		return failed(err)
	}
	return s, nil
}
