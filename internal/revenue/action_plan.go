package revenue

import (
	"fmt"
	"math"
	"strings"
)

type actionTemplate struct {
	timeframe string
	impact    string
	action    func(Outputs) string
}

var actionTemplates = map[string]actionTemplate{
	CategoryNicheClarity: {
		timeframe: "Week 1",
		impact:    "High - Enables clear messaging and targeting",
		action: func(o Outputs) string {
			return fmt.Sprintf("Rewrite target ICP: %s. Update all copy to speak directly to this narrow segment.", o.MarketClarity.NicheRewrite)
		},
	},
	CategoryPositioning: {
		timeframe: "Week 1",
		impact:    "High - Makes product purpose clear to visitors",
		action: func(o Outputs) string {
			return fmt.Sprintf("Rewrite positioning: %s. Update homepage headline and value prop.", o.Positioning.PositioningRewrite)
		},
	},
	CategoryPricingFit: {
		timeframe: "Week 1-2",
		impact:    "Medium - Better price-to-value alignment",
		action: func(o Outputs) string {
			return fmt.Sprintf("Adjust pricing: %s. Implement recommended price: $%s/mo.", o.Pricing.PricingFeedback, formatPrice(o.Pricing.RecommendedPrice))
		},
	},
	CategoryConversionStrength: {
		timeframe: "Week 2",
		impact:    "High - Directly impacts signup rate",
		action: func(o Outputs) string {
			return fmt.Sprintf(`Fix conversion killers: %s. Implement headline: "%s" and CTA: "%s".`,
				strings.Join(o.Conversion.ConversionKillers, ", "), o.Conversion.HeadlineRewrite, o.Conversion.CTARewrite)
		},
	},
	CategoryTrafficClarity: {
		timeframe: "Week 1-4",
		impact:    "Critical - No traffic = no revenue",
		action: func(o Outputs) string {
			return fmt.Sprintf("Define acquisition channel: %s. Execute first 10 user plan: %s...", o.Traffic.ChannelAnalysis, truncateRunes(o.Traffic.First10Plan, 100))
		},
	},
}

// scoreBracket selects one of the four fixed plan blocks.
type scoreBracket struct {
	below    int
	moves    []string
	timeline string
}

var planBrackets = []scoreBracket{
	{
		below: 40,
		moves: []string{
			"Pause building. Focus 100% on customer acquisition for 30 days.",
			"Interview 10 target users. Understand their actual problem, not your assumed problem.",
			"Redefine product positioning based on what users actually pay for.",
		},
		timeline: "Week 1-2: Fix positioning and ICP. Week 3-4: Manual outreach to first 10 users. Month 2: Iterate based on feedback. Month 3: Launch optimized version.",
	},
	{
		below: 60,
		moves: []string{
			"Stop adding features. Fix positioning and messaging first.",
			"Build in public. Share your journey on Twitter/X to attract early users.",
			"Create content that demonstrates value before asking for signup.",
		},
		timeline: "Week 1: Fix headline and CTA. Week 2: Implement pricing changes. Week 3-4: Execute first 10 user plan. Month 2: Optimize based on data.",
	},
	{
		below: 80,
		moves: []string{
			"Optimize conversion funnel: headline → value prop → CTA → pricing.",
			"Implement growth loop: make success shareable.",
			"Double down on one acquisition channel that works.",
		},
		timeline: "Week 1: Quick wins (headline, CTA, risk reversal). Week 2-3: Optimize conversion funnel. Week 4: Scale acquisition channel. Month 2: Growth loop optimization.",
	},
	{
		below: math.MaxInt,
		moves: []string{
			"Scale acquisition channel that's working.",
			"Optimize pricing tiers based on user feedback.",
			"Build referral program to accelerate growth.",
		},
		timeline: "Week 1: Fine-tune positioning. Week 2-4: Scale acquisition. Month 2: Optimize pricing and tiers. Month 3: Build growth loops.",
	},
}

func bracketFor(total int) scoreBracket {
	for _, b := range planBrackets {
		if total < b.below {
			return b
		}
	}
	return planBrackets[len(planBrackets)-1]
}

// GenerateActionPlan turns the top three improvement priorities into
// category-specific actions and picks the quick wins, strategic moves and
// timeline for the score bracket.
func GenerateActionPlan(in Input, score Score, o Outputs) ActionPlan {
	actions := []PriorityAction{}
	for i, p := range score.ImprovementPriorities {
		if i == 3 {
			break
		}
		tmpl, ok := actionTemplates[p.Category]
		if !ok {
			continue
		}
		actions = append(actions, PriorityAction{
			Action:    tmpl.action(o),
			Priority:  i + 1,
			Timeframe: tmpl.timeframe,
			Impact:    tmpl.impact,
		})
	}

	bracket := bracketFor(score.TotalScore)
	return ActionPlan{
		PriorityActions: actions,
		QuickWins:       quickWins(in, score.TotalScore),
		StrategicMoves:  append([]string(nil), bracket.moves...),
		Timeline:        bracket.timeline,
	}
}

func quickWins(in Input, total int) []string {
	wins := []string{}
	if total < 60 {
		wins = append(wins,
			"Rewrite homepage headline to be outcome-focused (not feature-focused)",
			"Add risk reversal: 30-day money-back guarantee",
			"Narrow target audience from generic to specific ICP",
		)
	}
	if in.MonthlyPrice < 19 {
		raised := math.Max(19, math.Round(in.MonthlyPrice*1.5))
		wins = append(wins, fmt.Sprintf("Raise price to $%s/mo (signals value)", formatPrice(raised)))
	}
	if in.WebsiteURL == "" {
		wins = append(wins, "Create simple landing page with clear headline, value prop, and CTA")
	}
	return append(wins,
		`Add social proof placeholder: "Join 50+ founders using [Product]"`,
		`Remove vague words from copy: "better", "improve", "optimize" → specific outcomes`,
	)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
