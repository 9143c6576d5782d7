package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
	"github.com/joelkehle/revenue-readiness/internal/scraper"
)

func main() {
	inputPath := flag.String("i", "", "Path to product input (YAML or JSON)")
	format := flag.String("format", "text", "Output format: text, json or md")
	preview := flag.Bool("preview", false, "Redact the report to the free preview")
	scrape := flag.Bool("scrape", false, "Enrich the input from website_url before scoring")
	timeout := flag.Duration("timeout", scraper.DefaultTimeout, "Website fetch timeout")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -i")
	}
	in, err := loadInput(*inputPath)
	if err != nil {
		color.Red("[-] %v", err)
		os.Exit(1)
	}
	if err := in.Validate(); err != nil {
		color.Red("[-] %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *scrape && in.WebsiteURL != "" {
		site, err := scraper.NewHTTPFetcher(*timeout).Fetch(ctx, in.WebsiteURL)
		if err != nil {
			color.Yellow("[!] Website enrichment skipped: %v", err)
		} else {
			in = scraper.Enrich(in, site)
			color.Green("[+] Enriched from %s", in.WebsiteURL)
		}
	}

	report, err := revenue.NewEngine().Run(ctx, in)
	if err != nil {
		color.Red("[-] Analysis failed: %v", err)
		os.Exit(1)
	}
	if *preview {
		report = revenue.BuildPreview(report)
	}

	if err := write(os.Stdout, *format, report); err != nil {
		color.Red("[-] %v", err)
		os.Exit(1)
	}
}

// loadInput reads YAML; JSON parses as YAML too.
func loadInput(path string) (revenue.Input, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return revenue.Input{}, fmt.Errorf("read input: %w", err)
	}
	var in revenue.Input
	if err := yaml.Unmarshal(blob, &in); err != nil {
		return revenue.Input{}, fmt.Errorf("decode input: %w", err)
	}
	return in, nil
}

func write(w io.Writer, format string, r revenue.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "md":
		_, err := io.WriteString(w, revenue.BuildMarkdown(r, revenue.ReportMeta{GeneratedAt: time.Now()}))
		return err
	case "text":
		printSummary(w, r)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func scoreColor(score, max float64) *color.Color {
	switch ratio := score / max; {
	case ratio >= 0.8:
		return color.New(color.FgGreen, color.Bold)
	case ratio >= 0.6:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func printSummary(w io.Writer, r revenue.Report) {
	s := r.Score
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s\n", r.Input.ProductName)
	fmt.Fprintf(w, "Revenue Readiness Score: ")
	scoreColor(float64(s.TotalScore), 100).Fprintf(w, "%d/100", s.TotalScore)
	fmt.Fprintf(w, "  %s\n", s.Interpretation)
	fmt.Fprintf(w, "Risk: %s  Leakage: %s  Confidence: %d%%\n\n", s.Advanced.RiskLevel, s.Advanced.RevenueLeakageIndicator, s.Advanced.ConfidenceScore)

	for _, c := range s.CategoryScores {
		fmt.Fprintf(w, "  %-22s ", c.Category)
		scoreColor(c.WeightedScore, c.MaxPossible).Fprintf(w, "%5.1f", c.WeightedScore)
		fmt.Fprintf(w, " / %.0f\n", c.MaxPossible)
	}

	if len(r.Conversion.ConversionKillers) > 0 {
		fmt.Fprintln(w)
		bold.Fprintln(w, "Conversion killers")
		for _, k := range r.Conversion.ConversionKillers {
			color.New(color.FgRed).Fprintf(w, "  [!] %s\n", k)
		}
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, "Improvement priorities")
	for i, p := range s.ImprovementPriorities {
		fmt.Fprintf(w, "  %d. %s (gap %.1f)\n", i+1, p.Category, p.Priority)
	}
	if r.Preview {
		fmt.Fprintln(w)
		color.New(color.FgCyan).Fprintln(w, "Preview: advisory text locked.")
	}
}
