// Package scraper fetches a product's landing page and extracts the copy the
// revenue engine can score: headings, hero text, pricing blurb, CTA labels and
// testimonials.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
)

const (
	UserAgent     = "RevenueZero-Bot/1.0 (Revenue Intelligence)"
	maxTextLength = 5000
	rawSampleLen  = 3000
)

var (
	ErrInvalidURL = errors.New("invalid URL")
	ErrTimeout    = errors.New("timeout")
)

// Fetcher scrapes a single page. Implementations return a ScrapedWebsite
// with Success set, or an error; they never crawl beyond the given URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (revenue.ScrapedWebsite, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("HTTP %d", e.Code) }

func validateURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrInvalidURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidURL
	}
	return u, nil
}

func failed(err error) (revenue.ScrapedWebsite, error) {
	return revenue.ScrapedWebsite{
		H1:           []string{},
		H2:           []string{},
		CTAButtons:   []string{},
		Testimonials: []string{},
		Error:        err.Error(),
	}, err
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

var (
	heroSelectors    = []string{`[class*="hero"]`, `[class*="banner"]`, `main section`, `.hero`, `#hero`, `[data-hero]`}
	pricingSelectors = []string{`[class*="pricing"]`, `[class*="price"]`, `[id*="pricing"]`, `[id*="price"]`, `[data-pricing]`}
	ctaSelector      = `a[href*="signup"], a[href*="register"], a[href*="start"], a[href*="get-started"], a[href*="trial"], ` +
		`button, [role="button"], [class*="cta"], [class*="btn"]`
	testimonialSelectors = []string{`[class*="testimonial"]`, `[class*="review"]`, `[class*="quote"]`, `blockquote`, `[data-testimonial]`}
)

// Extract pulls the scored copy out of a parsed page.
func Extract(doc *goquery.Document) revenue.ScrapedWebsite {
	h1 := texts(doc.Find("h1"), 5)
	h2 := texts(doc.Find("h2"), 15)

	hero := firstLongText(doc, heroSelectors, 100)
	if hero == "" && len(h1) > 0 {
		hero = strings.TrimSpace(doc.Find("h1").First().Parent().Text())
	}
	pricing := firstLongText(doc, pricingSelectors, 50)

	ctas := []string{}
	doc.Find(ctaSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := collapse(s.Text())
		if n := len([]rune(t)); n >= 2 && n <= 80 {
			ctas = append(ctas, t)
		}
		return len(ctas) < 10
	})

	testimonials := []string{}
	for _, sel := range testimonialSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			t := strings.TrimSpace(s.Text())
			if n := len([]rune(t)); n > 20 && n < 500 {
				testimonials = append(testimonials, collapse(t))
			}
		})
		if len(testimonials) >= 3 {
			break
		}
	}
	if len(testimonials) > 5 {
		testimonials = testimonials[:5]
	}

	body := truncate(strings.TrimSpace(doc.Find("body").Text()), rawSampleLen)
	return revenue.ScrapedWebsite{
		Title:          clean(doc.Find("title").First().Text()),
		H1:             cleanAll(h1),
		H2:             cleanAll(h2),
		HeroCopy:       clean(hero),
		PricingSection: clean(pricing),
		CTAButtons:     ctas,
		Testimonials:   testimonials,
		RawTextSample:  clean(body),
		Success:        true,
	}
}

// ExtractHTML parses html and runs Extract.
func ExtractHTML(html string) (revenue.ScrapedWebsite, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return revenue.ScrapedWebsite{}, fmt.Errorf("parse html: %w", err)
	}
	return Extract(doc), nil
}

// firstLongText walks selectors in order, keeping the first match's text, and
// stops once a match is longer than minLen. A shorter match from a later selector
// replaces an earlier one.
func firstLongText(doc *goquery.Document, selectors []string, minLen int) string {
	out := ""
	for _, sel := range selectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		out = strings.TrimSpace(el.Text())
		if len([]rune(out)) > minLen {
			break
		}
	}
	return out
}

func texts(sel *goquery.Selection, limit int) []string {
	out := []string{}
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
		return len(out) < limit
	})
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clean(s string) string {
	return truncate(collapse(s), maxTextLength)
}

func cleanAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = clean(s)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// MergeIntoDescription appends the scraped copy to the user's description so
// the keyword analyzers see the live site wording as well.
func MergeIntoDescription(description string, s revenue.ScrapedWebsite) string {
	parts := []string{description}
	if s.HeroCopy != "" {
		parts = append(parts, "Website hero: "+s.HeroCopy)
	}
	if s.PricingSection != "" {
		parts = append(parts, "Pricing section: "+s.PricingSection)
	}
	if len(s.H1) > 0 {
		parts = append(parts, "H1: "+strings.Join(s.H1, " | "))
	}
	if len(s.CTAButtons) > 0 {
		parts = append(parts, "CTAs: "+strings.Join(s.CTAButtons, ", "))
	}
	return strings.Join(parts, "\n\n")
}

// Enrich returns in with the scrape attached and merged into the description.
// A failed scrape leaves in untouched.
func Enrich(in revenue.Input, s revenue.ScrapedWebsite) revenue.Input {
	if !s.Success {
		return in
	}
	scraped := s
	in.ScrapedWebsite = &scraped
	in.Description = MergeIntoDescription(in.Description, s)
	return in
}
