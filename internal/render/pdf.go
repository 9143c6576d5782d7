package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFRenderer prints a markdown report to PDF.
type PDFRenderer interface {
	Render(ctx context.Context, report string, meta Meta) ([]byte, error)
}

// pageLayout is the printed page geometry in inches.
type pageLayout struct {
	Width, Height            float64
	Top, Bottom, Left, Right float64
}

// letterLayout leaves room for the running header and footer.
var letterLayout = pageLayout{Width: 8.5, Height: 11, Top: 0.8, Bottom: 0.7, Left: 0.6, Right: 0.6}

const chromeTemplateStyle = `width:100%;font-family:system-ui,sans-serif;font-size:8px;color:#64748b;padding:0 0.6in;display:flex;justify-content:space-between;`

type ChromiumPDFRenderer struct {
	chromePath string
	timeout    time.Duration
	layout     pageLayout
}

// NewChromiumPDFRenderer uses chromeBin when set, otherwise the first
// Chromium found on the usual paths.
func NewChromiumPDFRenderer(chromeBin string) *ChromiumPDFRenderer {
	if chromeBin == "" {
		chromeBin = detectChromePath()
	}
	return &ChromiumPDFRenderer{chromePath: chromeBin, timeout: 30 * time.Second, layout: letterLayout}
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, report string, meta Meta) ([]byte, error) {
	htmlDoc, err := HTML(report, meta)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	params := printParams(r.layout, meta)
	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady(".report-html", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			out, _, err := params.Do(ctx)
			if err != nil {
				return fmt.Errorf("print to pdf: %w", err)
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

// printParams lays out a scored report: the product and score run along the
// top of every page and the report ID with page numbers along the bottom.
func printParams(l pageLayout, meta Meta) *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPreferCSSPageSize(false).
		WithDisplayHeaderFooter(true).
		WithHeaderTemplate(headerTemplate(meta)).
		WithFooterTemplate(footerTemplate(meta)).
		WithPaperWidth(l.Width).
		WithPaperHeight(l.Height).
		WithMarginTop(l.Top).
		WithMarginBottom(l.Bottom).
		WithMarginLeft(l.Left).
		WithMarginRight(l.Right)
}

func headerTemplate(meta Meta) string {
	left := "Revenue Readiness Report"
	if meta.Product != "" {
		left += " | " + meta.Product
	}
	right := fmt.Sprintf("Score %d/100", meta.Score)
	if meta.Interpretation != "" {
		right += " | " + meta.Interpretation
	}
	if meta.Preview {
		right = "Preview | " + right
	}
	return `<div style="` + chromeTemplateStyle + `"><span>` + html.EscapeString(left) + `</span><span>` + html.EscapeString(right) + `</span></div>`
}

func footerTemplate(meta Meta) string {
	left := "RevenueZero"
	if meta.ReportID != "" {
		left += " | Report " + meta.ReportID
	}
	return `<div style="` + chromeTemplateStyle + `"><span>` + html.EscapeString(left) + `</span>` +
		`<span>Page <span class="pageNumber"></span> of <span class="totalPages"></span></span></div>`
}

func detectChromePath() string {
	for _, p := range []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
