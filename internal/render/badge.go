package render

import (
	"fmt"
	"math"
	"strings"
)

// Badge renders the shareable score badge. The percentile line is omitted
// when the project has no ranking yet.
func Badge(score int, percentile *float64) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="200" height="80" viewBox="0 0 200 80">` + "\n")
	b.WriteString(`  <rect width="200" height="80" rx="8" fill="#0f172a"/>` + "\n")
	b.WriteString(`  <text x="20" y="35" fill="#f8fafc" font-family="system-ui,sans-serif" font-size="14" font-weight="600">RevenueZero</text>` + "\n")
	fmt.Fprintf(&b, `  <text x="20" y="55" fill="%s" font-family="system-ui,sans-serif" font-size="11">Score: %d/100</text>`+"\n", scoreColor(score), score)
	if percentile != nil {
		fmt.Fprintf(&b, `  <text x="110" y="55" fill="#94a3b8" font-family="system-ui,sans-serif" font-size="11">Top %d%%</text>`+"\n",
			TopPercent(*percentile))
	}
	b.WriteString(`  <text x="20" y="72" fill="#64748b" font-family="system-ui,sans-serif" font-size="9">RevenueZero Verified</text>` + "\n")
	b.WriteString(`</svg>`)
	return b.String()
}

// TopPercent converts a percentile into the "Top N%" figure. The leader of a
// niche is reported as Top 1%.
func TopPercent(percentile float64) int {
	return max(1, int(math.Round(100-percentile)))
}

func scoreColor(score int) string {
	switch {
	case score >= 80:
		return "#4ade80"
	case score >= 60:
		return "#facc15"
	case score >= 40:
		return "#fb923c"
	default:
		return "#f87171"
	}
}
