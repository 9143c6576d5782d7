package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
)

const landingPage = `<!doctype html>
<html><head><title>  Acme   Revenue </title></head>
<body>
<section class="hero-block">
  <h1>Increase MRR in 30 days</h1>
  <p>Acme diagnoses why your SaaS is not converting and hands SaaS founders a concrete plan to fix pricing, positioning and onboarding.</p>
</section>
<h1></h1>
<h2>How it works</h2><h2>Pricing</h2>
<div id="pricing-table">Starter $19/mo. Pro $49/mo. Enterprise: talk to sales, custom limits.</div>
<a href="/signup">Start free trial</a>
<button>Go</button>
<button>X</button>
<div class="testimonial">"Acme found our pricing leak in an afternoon." - Dana</div>
<div class="testimonial">"We doubled trial conversion after one report." - Lee</div>
<blockquote>Short quote</blockquote>
</body></html>`

func TestExtractHTML(t *testing.T) {
	s, err := ExtractHTML(landingPage)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !s.Success {
		t.Fatal("expected success")
	}
	if s.Title != "Acme Revenue" {
		t.Fatalf("title: %q", s.Title)
	}
	if len(s.H1) != 1 || s.H1[0] != "Increase MRR in 30 days" {
		t.Fatalf("h1: %v", s.H1)
	}
	if len(s.H2) != 2 {
		t.Fatalf("h2: %v", s.H2)
	}
	if !strings.HasPrefix(s.HeroCopy, "Increase MRR in 30 days Acme diagnoses") {
		t.Fatalf("hero: %q", s.HeroCopy)
	}
	if !strings.HasPrefix(s.PricingSection, "Starter $19/mo.") {
		t.Fatalf("pricing: %q", s.PricingSection)
	}
	if len(s.CTAButtons) != 2 || s.CTAButtons[0] != "Start free trial" || s.CTAButtons[1] != "Go" {
		t.Fatalf("ctas: %v", s.CTAButtons)
	}
	if len(s.Testimonials) != 2 {
		t.Fatalf("testimonials: %v", s.Testimonials)
	}
	if strings.Contains(s.RawTextSample, "  ") || s.RawTextSample == "" {
		t.Fatalf("raw text not collapsed: %q", s.RawTextSample)
	}
}

func TestExtractHeroFallsBackToH1Parent(t *testing.T) {
	s, err := ExtractHTML(`<html><body><div><h1>Ship faster</h1><p>for agencies</p></div></body></html>`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if s.HeroCopy != "Ship faster for agencies" && s.HeroCopy != "Ship fasterfor agencies" {
		t.Fatalf("hero: %q", s.HeroCopy)
	}
}

func TestExtractCapsText(t *testing.T) {
	long := strings.Repeat("word ", 3000)
	s, err := ExtractHTML(`<html><head><title>` + long + `</title></head><body>` + long + `</body></html>`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if n := len([]rune(s.Title)); n != maxTextLength {
		t.Fatalf("title length %d", n)
	}
	if n := len([]rune(s.RawTextSample)); n > rawSampleLen {
		t.Fatalf("raw sample length %d", n)
	}
}

func TestHTTPFetcherFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(landingPage))
	}))
	defer srv.Close()

	s, err := NewHTTPFetcher(time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotUA != UserAgent {
		t.Fatalf("user agent: %q", gotUA)
	}
	if s.Title != "Acme Revenue" {
		t.Fatalf("title: %q", s.Title)
	}
}

func TestHTTPFetcherBoundsBody(t *testing.T) {
	head := `<html><head><title>Bounded</title></head><body><h1>Kept</h1>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(head))
		_, _ = w.Write([]byte("<p>" + strings.Repeat("x", 64<<10) + "</p>"))
		_, _ = w.Write([]byte(`<h1>Dropped</h1></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second)
	f.maxBytes = 8 << 10
	s, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if s.Title != "Bounded" {
		t.Fatalf("title: %q", s.Title)
	}
	if len(s.H1) != 1 || s.H1[0] != "Kept" {
		t.Fatalf("content past the body limit was parsed: %v", s.H1)
	}
	if NewHTTPFetcher(0).maxBytes != MaxBodyBytes {
		t.Fatal("default body limit not applied")
	}
}

func TestHTTPFetcherErrors(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer notFound.Close()
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	f := NewHTTPFetcher(100 * time.Millisecond)

	for _, raw := range []string{"", "ftp://example.com", "not a url", "https://"} {
		s, err := f.Fetch(context.Background(), raw)
		if !errors.Is(err, ErrInvalidURL) || s.Success || s.Error != "invalid URL" {
			t.Fatalf("%q: got %v / %+v", raw, err, s)
		}
	}

	s, err := f.Fetch(context.Background(), notFound.URL)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 404 || s.Error != "HTTP 404" {
		t.Fatalf("expected HTTP 404, got %v", err)
	}

	s, err = f.Fetch(context.Background(), slow.URL)
	if !errors.Is(err, ErrTimeout) || s.Error != "timeout" {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestMergeIntoDescription(t *testing.T) {
	got := MergeIntoDescription("Base copy", revenue.ScrapedWebsite{
		HeroCopy:   "Hero",
		H1:         []string{"A", "B"},
		CTAButtons: []string{"Start", "Demo"},
	})
	want := "Base copy\n\nWebsite hero: Hero\n\nH1: A | B\n\nCTAs: Start, Demo"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if MergeIntoDescription("Only", revenue.ScrapedWebsite{}) != "Only" {
		t.Fatal("empty scrape should leave description unchanged")
	}
}

func TestEnrich(t *testing.T) {
	in := revenue.Input{Description: "Base"}
	if out := Enrich(in, revenue.ScrapedWebsite{HeroCopy: "x"}); out.ScrapedWebsite != nil || out.Description != "Base" {
		t.Fatal("failed scrape must not modify input")
	}
	out := Enrich(in, revenue.ScrapedWebsite{Success: true, PricingSection: "$49"})
	if out.ScrapedWebsite == nil || out.Description != "Base\n\nPricing section: $49" {
		t.Fatalf("unexpected enrich: %+v", out)
	}
}
