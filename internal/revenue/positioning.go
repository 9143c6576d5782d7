package revenue

import (
	"fmt"
	"strings"
)

func AnalyzePositioning(in Input) PositioningOutput {
	desc := strings.ToLower(in.Description)
	return PositioningOutput{
		OutcomePromise:          clamp(outcomePromiseRules.Score(desc), 0, 10),
		UniqueMechanism:         scoreUniqueMechanism(desc, in.Competitors),
		Differentiation:         scoreDifferentiation(desc, in.Competitors),
		CategoryClarity:         clamp(categoryClarityRules.Score(desc), 0, 5),
		PositioningRewrite:      positioningRewrite(in, desc),
		UniqueValueProp:         uniqueValueProp(len(in.Competitors)),
		CategoryDefinition:      categoryDefinition(desc),
		DifferentiationAnalysis: differentiationAnalysis(len(in.Competitors)),
	}
}

func scoreUniqueMechanism(desc string, competitors []string) float64 {
	score := mechanismRules.Score(desc)
	if overlapsCompetitor(desc, competitors) {
		score--
	}
	return clamp(round1(score), 0, 5)
}

// overlapsCompetitor reports whether the description names a competitor or a
// competitor name contains the description's first word.
func overlapsCompetitor(desc string, competitors []string) bool {
	firstWord := strings.Split(desc, " ")[0]
	for _, c := range competitors {
		name := strings.ToLower(c)
		if strings.Contains(desc, name) || strings.Contains(name, firstWord) {
			return true
		}
	}
	return false
}

func scoreDifferentiation(desc string, competitors []string) float64 {
	if len(competitors) == 0 {
		return 2.5
	}
	descWords := map[string]struct{}{}
	for _, w := range strings.Fields(desc) {
		descWords[w] = struct{}{}
	}
	similar := 0
	for _, c := range competitors {
		overlap := 0
		for _, w := range strings.Fields(strings.ToLower(c)) {
			if _, ok := descWords[w]; ok && len(w) > 3 {
				overlap++
			}
		}
		if overlap > 2 {
			similar++
		}
	}
	score := 5 - float64(similar)/float64(len(competitors))*3
	return clamp(round1(score), 0, 5)
}

func positioningRewrite(in Input, desc string) string {
	rival := "other solutions"
	if len(in.Competitors) > 0 {
		rival = in.Competitors[0]
	}
	return fmt.Sprintf("For %s who %s, %s is the %s that %s. Unlike %s, we use [unique method] to achieve [outcome].",
		in.TargetUserGuess, problemPhrase(desc), in.ProductName, categoryNoun(desc), outcomePhrase(desc), rival)
}

func problemPhrase(desc string) string {
	if containsAny(desc, "struggle", "problem") {
		return "struggle with [specific problem]"
	}
	return "need [outcome]"
}

func categoryNoun(desc string) string {
	for _, noun := range []string{"platform", "tool", "system"} {
		if strings.Contains(desc, noun) {
			return noun
		}
	}
	return "solution"
}

func outcomePhrase(desc string) string {
	switch {
	case containsAny(desc, "increase", "grow"):
		return "increases [metric]"
	case containsAny(desc, "save", "reduce"):
		return "saves [time/money]"
	case strings.Contains(desc, "automate"):
		return "automates [task]"
	default:
		return "delivers [outcome]"
	}
}

func uniqueValueProp(competitors int) string {
	if competitors == 0 {
		return "Your unique mechanism isn't clear. Define: What specific method/approach/technology do you use that others don't? This is your defensible moat."
	}
	return "Your unique mechanism: [How you solve the problem differently]. This matters because [why this approach is better]. Your competitors do [what they do], but you do [what you do uniquely]."
}

func categoryDefinition(desc string) string {
	switch {
	case containsAny(desc, "revenue", "sales"):
		return "Revenue Intelligence Platform - not just analytics, but actionable diagnosis of why revenue isn't happening."
	case containsAny(desc, "productivity", "automate"):
		return "[Specific] Automation Tool - not generic productivity, but [specific task] automation for [specific user]."
	default:
		return `Define your category narrowly. Instead of "productivity tool," be "revenue diagnosis platform" or "micro-saas growth system." Category clarity = faster customer understanding.`
	}
}

func differentiationAnalysis(competitors int) string {
	if competitors == 0 {
		return "No competitors listed. Either: 1) Market doesn't exist (bad), 2) You haven't researched (worse), or 3) You're truly first (rare). Research competitors immediately."
	}
	return fmt.Sprintf("You compete with %d solutions. Differentiation required. Your edge: [specific differentiator]. If you can't articulate this in one sentence, you're a commodity.", competitors)
}
