package revenue

import (
	"fmt"
	"strings"
	"time"
)

// ReportMeta carries the persistence-side facts printed in the report header.
type ReportMeta struct {
	ReportID    string
	Version     int
	Percentile  *float64
	GeneratedAt time.Time
	Comparison  *Comparison
}

// BuildMarkdown renders a report (full or preview) as GitHub-flavored markdown.
func BuildMarkdown(r Report, meta ReportMeta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Revenue Readiness Report\n\n")
	fmt.Fprintf(&b, "- Product: %s\n", sanitize(r.Input.ProductName))
	if meta.ReportID != "" {
		fmt.Fprintf(&b, "- Report ID: %s\n", meta.ReportID)
	}
	if meta.Version > 0 {
		fmt.Fprintf(&b, "- Version: %d\n", meta.Version)
	}
	if !meta.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Date: %s\n", meta.GeneratedAt.UTC().Format(time.RFC3339))
	}
	if r.Preview {
		fmt.Fprintf(&b, "- View: preview\n")
	}
	fmt.Fprintf(&b, "\n")

	s := r.Score
	fmt.Fprintf(&b, "## Revenue Readiness Score: %d/100\n\n", s.TotalScore)
	fmt.Fprintf(&b, "- Interpretation: **%s**\n", s.Interpretation)
	fmt.Fprintf(&b, "- Risk level: `%s`\n", s.Advanced.RiskLevel)
	fmt.Fprintf(&b, "- Revenue leakage: %s\n", s.Advanced.RevenueLeakageIndicator)
	fmt.Fprintf(&b, "- Confidence: %d%%\n", s.Advanced.ConfidenceScore)
	if meta.Percentile != nil {
		fmt.Fprintf(&b, "- Percentile in niche: %.1f\n", *meta.Percentile)
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## Category Scores\n\n")
	fmt.Fprintf(&b, "| Category | Score | Max | Breakdown |\n")
	fmt.Fprintf(&b, "|----------|-------|-----|-----------|\n")
	for _, c := range s.CategoryScores {
		fmt.Fprintf(&b, "| %s | %.1f | %.0f | %s |\n", sanitizeCell(c.Category), c.WeightedScore, c.MaxPossible, formatBreakdown(specFor(c.Category), c.Breakdown))
	}
	fmt.Fprintf(&b, "\n")

	if meta.Comparison != nil {
		cmp := meta.Comparison
		fmt.Fprintf(&b, "## Progress Since Last Version\n\n")
		fmt.Fprintf(&b, "Score moved from %d to %d (%+d).\n\n", cmp.PreviousScore, cmp.CurrentScore, cmp.Delta)
		fmt.Fprintf(&b, "| Category | Previous | Current | Delta |\n")
		fmt.Fprintf(&b, "|----------|----------|---------|-------|\n")
		for _, d := range cmp.CategoryDeltas {
			fmt.Fprintf(&b, "| %s | %.1f | %.1f | %+.1f |\n", sanitizeCell(d.Category), d.Previous, d.Current, d.Delta)
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "## Improvement Priorities\n\n")
	for i, p := range s.ImprovementPriorities {
		fmt.Fprintf(&b, "%d. **%s** (gap %.1f): %s\n", i+1, p.Category, p.Priority, p.Reason)
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## Niche Clarity\n\n")
	writeAdvice(&b, "Niche rewrite", r.MarketClarity.NicheRewrite)
	writeAdvice(&b, "Problem statement", r.MarketClarity.ProblemStatement)
	writeAdvice(&b, "Target ICP", r.MarketClarity.TargetICP)
	writeAdvice(&b, "Market analysis", r.MarketClarity.MarketAnalysis)

	fmt.Fprintf(&b, "## Positioning\n\n")
	writeAdvice(&b, "Positioning rewrite", r.Positioning.PositioningRewrite)
	writeAdvice(&b, "Unique value proposition", r.Positioning.UniqueValueProp)
	writeAdvice(&b, "Category definition", r.Positioning.CategoryDefinition)
	writeAdvice(&b, "Differentiation", r.Positioning.DifferentiationAnalysis)

	fmt.Fprintf(&b, "## Pricing\n\n")
	fmt.Fprintf(&b, "- **Recommended price**: $%s/mo\n", formatPrice(r.Pricing.RecommendedPrice))
	writeAdvice(&b, "Feedback", r.Pricing.PricingFeedback)
	writeAdvice(&b, "Strategy", r.Pricing.PricingStrategy)
	writeAdvice(&b, "Tiers", r.Pricing.TierRecommendations)

	fmt.Fprintf(&b, "## Conversion\n\n")
	if len(r.Conversion.ConversionKillers) > 0 {
		fmt.Fprintf(&b, "Conversion killers:\n\n")
		for _, k := range r.Conversion.ConversionKillers {
			fmt.Fprintf(&b, "- [!] %s\n", sanitize(k))
		}
		fmt.Fprintf(&b, "\n")
	}
	writeAdvice(&b, "Headline", r.Conversion.HeadlineRewrite)
	writeAdvice(&b, "CTA", r.Conversion.CTARewrite)
	writeAdvice(&b, "Social proof", r.Conversion.SocialProofRecommendations)
	writeAdvice(&b, "Risk reversal", r.Conversion.RiskReversalTactics)

	fmt.Fprintf(&b, "## Traffic\n\n")
	writeAdvice(&b, "Channels", r.Traffic.ChannelAnalysis)
	if r.Traffic.First10Plan != "" {
		fmt.Fprintf(&b, "```\n%s\n```\n\n", r.Traffic.First10Plan)
	}
	writeAdvice(&b, "Acquisition strategy", r.Traffic.AcquisitionStrategy)
	writeAdvice(&b, "Growth loop", r.Traffic.GrowthLoop)

	fmt.Fprintf(&b, "## Action Plan\n\n")
	plan := r.ActionPlan
	if len(plan.PriorityActions) > 0 {
		fmt.Fprintf(&b, "| # | Action | Timeframe | Impact |\n")
		fmt.Fprintf(&b, "|---|--------|-----------|--------|\n")
		for _, a := range plan.PriorityActions {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", a.Priority, sanitizeCell(a.Action), sanitizeCell(a.Timeframe), sanitizeCell(a.Impact))
		}
		fmt.Fprintf(&b, "\n")
	}
	writeList(&b, "Quick wins", plan.QuickWins)
	writeList(&b, "Strategic moves", plan.StrategicMoves)
	writeAdvice(&b, "Timeline", plan.Timeline)
	return b.String()
}

func writeAdvice(b *strings.Builder, label, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintf(b, "- **%s**: %s\n\n", label, sanitize(text))
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n\n", label)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", sanitize(it))
	}
	fmt.Fprintf(b, "\n")
}

// formatBreakdown lists sub-scores in declaration order; an emptied
// breakdown renders as locked.
func formatBreakdown(spec CategorySpec, bd map[string]float64) string {
	if len(bd) == 0 {
		return "locked"
	}
	parts := make([]string, 0, len(spec.SubScores))
	for _, sub := range spec.SubScores {
		if v, ok := bd[sub.Key]; ok {
			parts = append(parts, fmt.Sprintf("%s %.1f/%.0f", sub.Key, v, sub.Max))
		}
	}
	return strings.Join(parts, ", ")
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func sanitizeCell(s string) string {
	return strings.ReplaceAll(sanitize(s), "|", "\\|")
}
