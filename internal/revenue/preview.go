package revenue

// visibleBreakdowns is how many of the weakest categories keep their
// sub-score breakdown in a preview.
const visibleBreakdowns = 2

const previewListLimit = 3

// BuildPreview derives the redacted view of a full report. Numeric scores stay
// visible; advisory text is replaced with LockedText, the action plan is
// emptied, and only the two weakest categories keep their breakdowns.
func BuildPreview(full Report) Report {
	out := full
	out.Preview = true

	visible := map[string]bool{}
	for i, c := range weakestFirst(full.Score.CategoryScores) {
		if i == visibleBreakdowns {
			break
		}
		visible[c.Category] = true
	}
	categories := make([]CategoryScore, len(full.Score.CategoryScores))
	for i, c := range full.Score.CategoryScores {
		categories[i] = c
		if visible[c.Category] {
			categories[i].Breakdown = copyBreakdown(c.Breakdown)
		} else {
			categories[i].Breakdown = map[string]float64{}
		}
	}
	out.Score.CategoryScores = categories
	out.Score.ImprovementPriorities = firstN(full.Score.ImprovementPriorities, previewListLimit)

	out.MarketClarity.NicheRewrite = LockedText
	out.MarketClarity.ProblemStatement = LockedText
	out.MarketClarity.TargetICP = LockedText
	out.MarketClarity.MarketAnalysis = LockedText

	out.Positioning.PositioningRewrite = LockedText
	out.Positioning.UniqueValueProp = LockedText
	out.Positioning.CategoryDefinition = LockedText
	out.Positioning.DifferentiationAnalysis = LockedText

	out.Pricing.PricingFeedback = LockedText
	out.Pricing.PricingStrategy = LockedText
	out.Pricing.TierRecommendations = LockedText

	out.Conversion.ConversionKillers = firstN(full.Conversion.ConversionKillers, previewListLimit)
	out.Conversion.HeadlineRewrite = LockedText
	out.Conversion.CTARewrite = LockedText
	out.Conversion.SocialProofRecommendations = LockedText
	out.Conversion.RiskReversalTactics = LockedText

	out.Traffic.ChannelAnalysis = LockedText
	out.Traffic.First10Plan = LockedText
	out.Traffic.AcquisitionStrategy = LockedText
	out.Traffic.GrowthLoop = LockedText

	out.ActionPlan = ActionPlan{
		PriorityActions: []PriorityAction{},
		QuickWins:       []string{},
		StrategicMoves:  []string{},
		Timeline:        LockedText,
	}
	return out
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		s = s[:n]
	}
	return append(make([]T, 0, len(s)), s...)
}

func copyBreakdown(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
