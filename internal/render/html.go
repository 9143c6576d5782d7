// Package render turns markdown reports into standalone HTML, PDF and SVG
// score badges.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Meta is the header shown above the rendered report body.
type Meta struct {
	Product        string
	ReportID       string
	Score          int
	Interpretation string
	Preview        bool
}

const reportCSS = `body{font-family:system-ui,-apple-system,"Segoe UI",sans-serif;color:#0f172a;background:#fff;margin:0;padding:0.6rem;line-height:1.5;}
.pdf-wrap{max-width:960px;margin:0 auto;}
.report-header{display:flex;justify-content:space-between;align-items:center;border-bottom:2px solid #0f172a;padding-bottom:0.5rem;margin-bottom:1rem;}
.report-meta{color:#334155;font-size:0.85rem;}
.report-badge{display:inline-block;background:#e2e8f0;color:#0f172a;border:1px solid #94a3b8;border-radius:4px;padding:0.1rem 0.5rem;margin-left:0.35rem;font-size:0.8rem;}
.report-badge.preview{background:#fef3c7;border-color:#fcd34d;color:#78350f;}
.report-html table{width:100%;border-collapse:collapse;border:1px solid #cbd5e1;font-size:0.8rem;}
.report-html th,.report-html td{border:1px solid #cbd5e1;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}
.report-html thead th{background:#f1f5f9;font-weight:700;}
.report-html pre{background:#f8fafc;border:1px solid #e2e8f0;padding:0.6rem;white-space:pre-wrap;font-size:0.8rem;}
h2[data-score-heading="true"]{font-size:1.6rem;}
h2[data-page-break-before="true"]{break-before:page;page-break-before:always;}
html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}
@media print{ @page{size:auto;margin:12mm;} body{padding:0;} .pdf-wrap{max-width:none;} }`

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders a markdown report as a self-contained HTML document.
func HTML(report string, meta Meta) (string, error) {
	var content strings.Builder
	if err := markdown.Convert([]byte(report), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	title := "Revenue Readiness Report"
	if meta.Product != "" {
		title += " - " + meta.Product
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + reportCSS + "</style></head><body>" +
		"<div class='pdf-wrap'><div class='report-header'>" +
		"<div class='report-meta'>" + metaHTML(meta) + "</div>" +
		"<div class='report-badges'>" + badgesHTML(meta) + "</div>" +
		"</div><div class='report-html'>" + applyPrintLayoutHooks(content.String()) + "</div></div>" +
		"</body></html>", nil
}

var (
	reActionPlan   = regexp.MustCompile(`(?i)<h2([^>]*)>\s*Action Plan\s*</h2>`)
	reScoreHeading = regexp.MustCompile(`(?i)<h2([^>]*)>\s*(Revenue Readiness Score:[^<]*)\s*</h2>`)
)

// applyPrintLayoutHooks starts the action plan on a fresh page and enlarges
// the headline score.
func applyPrintLayoutHooks(contentHTML string) string {
	out := reActionPlan.ReplaceAllString(contentHTML, `<h2$1 data-page-break-before="true">Action Plan</h2>`)
	return reScoreHeading.ReplaceAllString(out, `<h2$1 data-score-heading="true">$2</h2>`)
}

func metaHTML(m Meta) string {
	var out strings.Builder
	if m.Product != "" {
		out.WriteString("<div><strong>Product:</strong> " + html.EscapeString(m.Product) + "</div>")
	}
	if m.ReportID != "" {
		out.WriteString("<div><strong>Report:</strong> " + html.EscapeString(m.ReportID) + "</div>")
	}
	return out.String()
}

func badgesHTML(m Meta) string {
	var out strings.Builder
	fmt.Fprintf(&out, "<span class='report-badge'>%d/100</span>", m.Score)
	if m.Interpretation != "" {
		out.WriteString("<span class='report-badge'>" + html.EscapeString(m.Interpretation) + "</span>")
	}
	if m.Preview {
		out.WriteString("<span class='report-badge preview'>Preview</span>")
	}
	return out.String()
}
