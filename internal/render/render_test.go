package render

import (
	"strings"
	"testing"
)

func TestHTMLRendersTablesAndMeta(t *testing.T) {
	md := "# Revenue Readiness Report\n\n## Revenue Readiness Score: 72/100\n\n| Category | Score |\n|---|---|\n| Pricing Fit | 9.0 |\n\n## Action Plan\n\n- ship\n"
	out, err := HTML(md, Meta{Product: "Acme <Beta>", ReportID: "r1", Score: 72, Interpretation: "Close but unclear", Preview: true})
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	for _, want := range []string{
		"<table>",
		"<td>Pricing Fit</td>",
		"Acme &lt;Beta&gt;",
		"<span class='report-badge'>72/100</span>",
		"report-badge preview",
		`<h2 data-page-break-before="true">Action Plan</h2>`,
		`data-score-heading="true"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("html missing %q:\n%s", want, out)
		}
	}
}

func TestApplyPrintLayoutHooksNoopWhenHeadingMissing(t *testing.T) {
	in := "<h2>Pricing</h2><p>x</p>"
	if out := applyPrintLayoutHooks(in); out != in {
		t.Fatalf("expected no change, got: %s", out)
	}
}

func TestBadge(t *testing.T) {
	pct := 72.4
	svg := Badge(81, &pct)
	if !strings.Contains(svg, "Score: 81/100") || !strings.Contains(svg, "Top 28%") {
		t.Fatalf("unexpected badge: %s", svg)
	}
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("badge is not a standalone svg document")
	}
	if strings.Contains(Badge(10, nil), "Top ") {
		t.Fatal("badge without percentile should omit the rank")
	}
}

func TestTopPercent(t *testing.T) {
	cases := map[float64]int{100: 1, 99.7: 1, 99.2: 1, 98.6: 1, 0: 100, 50: 50, 66.6: 33, 12.5: 88}
	for in, want := range cases {
		if got := TopPercent(in); got != want {
			t.Fatalf("TopPercent(%v)=%d want %d", in, got, want)
		}
	}
}

func TestPrintParamsCarryReportChrome(t *testing.T) {
	p := printParams(letterLayout, Meta{Product: "Acme <Beta>", ReportID: "r-42", Score: 72, Interpretation: "Close but unclear", Preview: true})
	if p.PaperWidth != 8.5 || p.PaperHeight != 11 || p.MarginTop != letterLayout.Top {
		t.Fatalf("layout not applied: %+v", p)
	}
	if !p.DisplayHeaderFooter || !p.PrintBackground {
		t.Fatal("header/footer and backgrounds must be printed")
	}
	for _, want := range []string{"Acme &lt;Beta&gt;", "Preview | Score 72/100 | Close but unclear"} {
		if !strings.Contains(p.HeaderTemplate, want) {
			t.Fatalf("header missing %q: %s", want, p.HeaderTemplate)
		}
	}
	for _, want := range []string{"Report r-42", `class="pageNumber"`, `class="totalPages"`} {
		if !strings.Contains(p.FooterTemplate, want) {
			t.Fatalf("footer missing %q: %s", want, p.FooterTemplate)
		}
	}

	full := printParams(letterLayout, Meta{Score: 40})
	if strings.Contains(full.HeaderTemplate, "Preview") || strings.Contains(full.FooterTemplate, "Report ") {
		t.Fatalf("unexpected chrome for bare meta: %s / %s", full.HeaderTemplate, full.FooterTemplate)
	}
}
