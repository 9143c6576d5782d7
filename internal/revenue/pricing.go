package revenue

import (
	"fmt"
	"math"
	"strings"
)

func AnalyzePricing(in Input) PricingOutput {
	price := in.MonthlyPrice
	return PricingOutput{
		PriceValueAlignment:  scorePriceValueAlignment(price, in.FeatureList),
		TierClarity:          scoreTierClarity(in.PricingModel),
		PsychologicalPricing: scorePsychologicalPricing(price),
		PricingFeedback:      pricingFeedback(price),
		RecommendedPrice:     recommendedPrice(price, in.FeatureList),
		PricingStrategy:      pricingStrategy(price, in.PricingModel),
		TierRecommendations:  tierRecommendations(price, in.PricingModel),
	}
}

func anyFeatureMatches(features []string, match func(string) bool) bool {
	for _, f := range features {
		if match(f) {
			return true
		}
	}
	return false
}

func scorePriceValueAlignment(price float64, features []string) float64 {
	count := len(features)
	hasComplex := anyFeatureMatches(features, alignmentComplexFeature.MatchString)

	score := 2.5
	if price < 10 && (count >= 5 || hasComplex) {
		score -= 1.5
	}
	if price > 100 && count < 3 && !hasComplex {
		score -= 1.5
	}
	if price >= 19 && price <= 99 {
		score++
	}
	if count >= 5 && price >= 29 {
		score += 0.5
	}
	return clamp(round1(score), 0, 5)
}

// scoreTierClarity walks a keyword ladder over the pricing model text. Three
// named tiers capped by pro and enterprise rank highest.
func scoreTierClarity(model string) float64 {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "pro") && strings.Contains(m, "enterprise") && containsAny(m, "free", "starter", "basic"):
		return 5
	case containsAny(m, "starter", "basic", "pro", "growth"):
		return 4
	case containsAny(m, "tier", "plan", "package"):
		return 3
	case containsAny(m, "single", "one", "flat"):
		return 2
	default:
		return 1
	}
}

func scorePsychologicalPricing(price float64) float64 {
	for _, p := range psychologicalPrices {
		if price == p {
			return 5
		}
	}
	if math.Mod(price, 5) == 0 {
		return 3
	}
	return 2
}

func pricingFeedback(price float64) string {
	p := formatPrice(price)
	switch {
	case price < 10:
		return fmt.Sprintf("Price too low ($%s/mo). Signals low value. Micro SaaS founders often underprice to avoid sales friction, but this backfires. Minimum viable price: $19/mo.", p)
	case price > 200:
		return fmt.Sprintf("Price high ($%s/mo). Requires enterprise positioning, sales process, and proof. If you're pre-revenue, start lower and raise after validation.", p)
	case price >= 19 && price <= 99:
		return fmt.Sprintf("Price in good range ($%s/mo). This is the sweet spot for self-serve SaaS. Ensure your value prop justifies it.", p)
	default:
		return fmt.Sprintf("Price at $%s/mo. Consider psychological pricing ($19, $29, $49, $79, $99) for better conversion.", p)
	}
}

// recommendedPrice snaps an in-range price to the nearest canonical price,
// keeping the lower candidate on ties. Out-of-range prices are re-derived
// from the feature set.
func recommendedPrice(price float64, features []string) float64 {
	if price >= 19 && price <= 99 {
		best := snapPrices[0]
		for _, p := range snapPrices[1:] {
			if math.Abs(p-price) < math.Abs(best-price) {
				best = p
			}
		}
		return best
	}
	hasComplex := anyFeatureMatches(features, recommendedComplexFeature.MatchString)
	switch {
	case hasComplex && len(features) >= 5:
		return 79
	case len(features) >= 3:
		return 49
	default:
		return 29
	}
}

func pricingStrategy(price float64, model string) string {
	switch {
	case strings.Contains(strings.ToLower(model), "free"):
		return "Free tier strategy: Use free tier to acquire users, but ensure paid tier has clear upgrade path. Free users should hit limits that make paid tier obvious."
	case price < 20:
		return "Low-price strategy: You're competing on price, not value. This is a race to the bottom. Raise price and improve positioning."
	case price <= 99:
		return "Self-serve SaaS pricing: Good range for impulse purchases and credit card signups. Focus on clear value prop and risk reversal (money-back guarantee)."
	default:
		return "Higher-price strategy: Requires sales process, demos, or trials. Not ideal for $0 revenue stage. Consider lower entry point with upgrade path."
	}
}

func tierRecommendations(price float64, model string) string {
	m := strings.ToLower(model)
	starter := formatPrice(math.Round(price * 0.6))
	switch {
	case containsAny(m, "single", "one", "flat"):
		return fmt.Sprintf("Single price point: Consider adding Starter ($%s) and Growth ($%s) tiers. Starter removes friction, Growth is your target.", starter, formatPrice(price))
	case containsAny(m, "tier", "plan"):
		return `Multi-tier structure: Ensure tiers are clearly differentiated by usage/features, not just price. Each tier should have clear "next step" upgrade path.`
	default:
		return fmt.Sprintf("Pricing model unclear. Recommended structure: Starter ($%s/mo) for early adopters, Growth ($%s/mo) as main tier, Launch Mode ($%s/mo) for power users.",
			starter, formatPrice(price), formatPrice(math.Round(price*2)))
	}
}
