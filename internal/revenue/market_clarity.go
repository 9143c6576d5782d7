package revenue

import (
	"fmt"
	"strings"
)

// AnalyzeMarketClarity scores how narrowly the product defines who it serves
// and what problem it solves.
func AnalyzeMarketClarity(in Input) MarketClarityOutput {
	return MarketClarityOutput{
		ICPSpecificity:      scoreICPSpecificity(in.TargetUserGuess),
		ProblemClarity:      scoreProblemClarity(in.Description),
		MarketNarrowness:    scoreMarketNarrowness(in.TargetUserGuess, len(in.Competitors)),
		LanguageSpecificity: scoreLanguageSpecificity(in.Description, in.TargetUserGuess),
		NicheRewrite:        nicheRewrite(in),
		ProblemStatement:    problemStatement(in.Description),
		TargetICP:           fmt.Sprintf("Primary: %s who [specific behavior/pain point]. Secondary: [related but narrower segment]. Exclude: [who this is NOT for].", in.TargetUserGuess),
		MarketAnalysis:      marketAnalysis(len(in.Competitors)),
	}
}

func scoreICPSpecificity(target string) float64 {
	return clamp(icpRules.Score(strings.ToLower(target)), 0, 10)
}

func scoreProblemClarity(description string) float64 {
	return clamp(round1(problemClarityRules.Score(strings.ToLower(description))), 0, 5)
}

func scoreMarketNarrowness(target string, competitors int) float64 {
	score := 5.0
	if genericAudience.MatchString(strings.ToLower(target)) {
		score -= 2
	}
	switch {
	case competitors > 10:
		score -= 1.5
	case competitors > 5:
		score -= 1
	}
	return clamp(round1(score), 0, 5)
}

func scoreLanguageSpecificity(description, target string) float64 {
	combined := strings.ToLower(description + " " + target)
	return clamp(round1(languageRules.Score(combined)), 0, 5)
}

func nicheRewrite(in Input) string {
	target := strings.ToLower(in.TargetUserGuess)
	switch {
	case containsAny(target, "everyone", "anyone", "all"):
		return "Micro SaaS founders stuck at $0-$500 MRR who have built a product but can't get paying customers. " +
			"Specifically: solo founders or 2-person teams, technical background, launched in last 6 months, " +
			"have 0-10 paying customers, spending more time building than selling."
	case containsAny(target, "startup", "founder"):
		return fmt.Sprintf("%s who are pre-revenue or under $1K MRR, specifically struggling with customer acquisition and conversion.", in.TargetUserGuess)
	default:
		return fmt.Sprintf("%s who are actively struggling with [specific problem from description] and have tried [competitor solutions] without success.", in.TargetUserGuess)
	}
}

func problemStatement(description string) string {
	desc := strings.ToLower(description)
	switch {
	case containsAny(desc, "productivity", "automate"):
		return "Wasting [X hours/days] per [timeframe] on [repetitive task] that could be automated, leading to [specific cost: missed revenue, burnout, errors]."
	case containsAny(desc, "revenue", "sales", "growth"):
		return "Stuck at $0 revenue despite having a product because [specific blocker: no clear positioning, wrong pricing, no traffic strategy]."
	default:
		return "[Target user] struggles with [core problem] which costs them [quantifiable impact] and prevents them from [desired outcome]."
	}
}

func marketAnalysis(competitors int) string {
	switch {
	case competitors == 0:
		return "No direct competitors identified. This suggests either: 1) Market doesn't exist, 2) Problem isn't painful enough, or 3) You haven't researched. High risk."
	case competitors > 10:
		return fmt.Sprintf("Highly competitive market with %d+ competitors. Differentiation is critical. Your unique mechanism must be clear and defensible.", competitors)
	default:
		return fmt.Sprintf("Moderate competition (%d competitors). Market exists but positioning and execution will determine success. Focus on specific niche within this market.", competitors)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
