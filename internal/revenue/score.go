package revenue

import (
	"fmt"
	"math"
	"sort"
)

// Outputs bundles the five analyzer results consumed by the aggregator and
// the action plan generator.
type Outputs struct {
	MarketClarity MarketClarityOutput
	Positioning   PositioningOutput
	Pricing       PricingOutput
	Conversion    ConversionOutput
	Traffic       TrafficOutput
}

func (o Outputs) breakdown(category string) map[string]float64 {
	switch category {
	case CategoryNicheClarity:
		return map[string]float64{
			"icp_specificity":      o.MarketClarity.ICPSpecificity,
			"problem_clarity":      o.MarketClarity.ProblemClarity,
			"market_narrowness":    o.MarketClarity.MarketNarrowness,
			"language_specificity": o.MarketClarity.LanguageSpecificity,
		}
	case CategoryPositioning:
		return map[string]float64{
			"outcome_promise":  o.Positioning.OutcomePromise,
			"unique_mechanism": o.Positioning.UniqueMechanism,
			"differentiation":  o.Positioning.Differentiation,
			"category_clarity": o.Positioning.CategoryClarity,
		}
	case CategoryPricingFit:
		return map[string]float64{
			"price_value_alignment": o.Pricing.PriceValueAlignment,
			"tier_clarity":          o.Pricing.TierClarity,
			"psychological_pricing": o.Pricing.PsychologicalPricing,
		}
	case CategoryConversionStrength:
		return map[string]float64{
			"headline_clarity": o.Conversion.HeadlineClarity,
			"cta_strength":     o.Conversion.CTAStrength,
			"social_proof":     o.Conversion.SocialProof,
			"risk_reversal":    o.Conversion.RiskReversal,
		}
	case CategoryTrafficClarity:
		return map[string]float64{
			"acquisition_channel": o.Traffic.AcquisitionChannel,
			"first_10_user_plan":  o.Traffic.First10UserPlan,
			"repeatable_loop":     o.Traffic.RepeatableLoop,
		}
	}
	return map[string]float64{}
}

// Aggregate combines the analyzer outputs into the weighted 0-100 score.
// Each category's raw sum is rescaled from its declared raw range onto its
// weight, so a change in sub-score ranges cannot push a category past its
// share of the total.
func Aggregate(o Outputs) Score {
	categories := make([]CategoryScore, 0, len(Categories))
	sum := 0.0
	for _, spec := range Categories {
		cs := scoreCategory(spec, o.breakdown(spec.Name))
		sum += cs.WeightedScore
		categories = append(categories, cs)
	}

	total := int(clamp(math.Round(sum), 0, 100))
	return Score{
		TotalScore:            total,
		Interpretation:        interpret(total),
		Advanced:              advancedMetadata(total, categories),
		CategoryScores:        categories,
		ImprovementPriorities: improvementPriorities(categories),
	}
}

// scoreCategory scales the summed sub-scores of one category onto its weight.
func scoreCategory(spec CategorySpec, bd map[string]float64) CategoryScore {
	raw := 0.0
	for _, sub := range spec.SubScores {
		raw += bd[sub.Key]
	}
	weighted := 0.0
	if maxRaw := spec.MaxRaw(); maxRaw > 0 {
		weighted = clamp(raw/maxRaw*spec.Weight, 0, spec.Weight)
	}
	return CategoryScore{
		Category:      spec.Name,
		RawScore:      raw,
		WeightedScore: weighted,
		MaxPossible:   spec.Weight,
		Breakdown:     bd,
	}
}

func interpret(total int) Interpretation {
	switch {
	case total < 40:
		return InterpretationGuessing
	case total < 60:
		return InterpretationBuilding
	case total < 80:
		return InterpretationUnclear
	case total < 90:
		return InterpretationReady
	default:
		return InterpretationAggressive
	}
}

// weakestFirst returns the categories ordered by ascending weighted score,
// keeping declaration order on ties.
func weakestFirst(categories []CategoryScore) []CategoryScore {
	sorted := append([]CategoryScore(nil), categories...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeightedScore < sorted[j].WeightedScore
	})
	return sorted
}

func advancedMetadata(total int, categories []CategoryScore) AdvancedMetadata {
	gap := 0.0
	pricing, conversion := 15.0, 20.0
	for _, c := range categories {
		gap += c.MaxPossible - c.WeightedScore
		switch c.Category {
		case CategoryPricingFit:
			pricing = c.WeightedScore
		case CategoryConversionStrength:
			conversion = c.WeightedScore
		}
	}
	avgGap := 0.0
	if len(categories) > 0 {
		avgGap = gap / float64(len(categories))
	}

	risk := RiskLow
	switch {
	case total < 40 || avgGap > 12:
		risk = RiskHigh
	case total < 60 || avgGap > 8:
		risk = RiskMedium
	}

	leakage := "Minimal"
	switch {
	case total < 40:
		leakage = "Severe - multiple blockers"
	case total < 60:
		leakage = "Significant - positioning/pricing gaps"
	case total < 80:
		leakage = "Moderate - optimization needed"
	case len(categories) > 0:
		if worst := weakestFirst(categories)[0]; worst.WeightedScore < worst.MaxPossible*0.6 {
			leakage = "Leak in " + worst.Category
		}
	}

	confidence := 70 + float64(total)/100*15
	if pricing < 8 {
		confidence -= 5
	}
	if conversion < 10 {
		confidence -= 5
	}
	return AdvancedMetadata{
		RiskLevel:               risk,
		RevenueLeakageIndicator: leakage,
		ConfidenceScore:         int(clamp(math.Round(confidence), 50, 95)),
	}
}

func improvementPriorities(categories []CategoryScore) []ImprovementPriority {
	out := make([]ImprovementPriority, 0, len(categories))
	for _, c := range categories {
		out = append(out, ImprovementPriority{
			Category: c.Category,
			Priority: c.MaxPossible - c.WeightedScore,
			Reason:   priorityReason(c),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

func priorityReason(c CategoryScore) string {
	pct := 0.0
	if c.MaxPossible > 0 {
		pct = c.WeightedScore / c.MaxPossible * 100
	}
	switch {
	case pct < 50:
		return fmt.Sprintf("%s is critically weak. This is blocking revenue.", c.Category)
	case pct < 70:
		return fmt.Sprintf("%s needs significant improvement to unlock revenue.", c.Category)
	case pct < 85:
		return fmt.Sprintf("%s is decent but optimization will accelerate growth.", c.Category)
	default:
		return fmt.Sprintf("%s is strong. Focus elsewhere.", c.Category)
	}
}
