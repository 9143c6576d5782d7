package revenue

import (
	"strings"
	"testing"
	"time"
)

func TestBuildMarkdownFullReport(t *testing.T) {
	r := runReport(t, sampleInput())
	pct := 75.0
	md := BuildMarkdown(r, ReportMeta{
		ReportID:    "rep-1",
		Version:     2,
		Percentile:  &pct,
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	for _, want := range []string{
		"# Revenue Readiness Report",
		"- Product: RevenueZero",
		"- Report ID: rep-1",
		"- Version: 2",
		"- Date: 2026-03-01T12:00:00Z",
		"- Percentile in niche: 75.0",
		"| Niche Clarity |",
		"## Action Plan",
		"- **Recommended price**: $49/mo",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "| locked |") || strings.Contains(md, "## Progress Since Last Version") {
		t.Fatal("full report without comparison should not render locked cells or progress")
	}
}

func TestBuildMarkdownPreviewLocksBreakdowns(t *testing.T) {
	p := BuildPreview(runReport(t, emptyInput()))
	md := BuildMarkdown(p, ReportMeta{})
	if !strings.Contains(md, "- View: preview") {
		t.Fatal("expected preview marker")
	}
	if got := strings.Count(md, "| locked |"); got != 3 {
		t.Fatalf("expected 3 locked breakdown cells, got %d", got)
	}
	if !strings.Contains(md, LockedText) {
		t.Fatal("expected locked advisory text")
	}
	if strings.Contains(md, "Quick wins:") {
		t.Fatal("preview should not list quick wins")
	}
}

func TestBuildMarkdownComparison(t *testing.T) {
	r := runReport(t, sampleInput())
	cmp := CompareScores(scoreWith(42, 10, 8, 9, 8, 7), r.Score)
	md := BuildMarkdown(r, ReportMeta{Comparison: &cmp})
	if !strings.Contains(md, "## Progress Since Last Version") {
		t.Fatal("expected progress section")
	}
	if !strings.Contains(md, "Score moved from 42 to") {
		t.Fatalf("unexpected progress text:\n%s", md)
	}
}

func TestFormatBreakdownOrder(t *testing.T) {
	spec := specFor(CategoryPricingFit)
	got := formatBreakdown(spec, map[string]float64{
		"psychological_pricing": 1, "price_value_alignment": 8, "tier_clarity": 5,
	})
	if !strings.HasPrefix(got, "price_value_alignment 8.0/") {
		t.Fatalf("expected declaration order, got %q", got)
	}
}

func TestSanitizeCellEscapesPipes(t *testing.T) {
	if got := sanitizeCell("a|b\nc"); got != `a\|b c` {
		t.Fatalf("got %q", got)
	}
}
