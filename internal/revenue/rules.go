package revenue

import (
	"math"
	"regexp"
	"strconv"
)

// Rule awards Points when Pattern matches (or, with Absent set, when it does
// not match) the text under evaluation.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Points  float64
	Absent  bool
}

func (r Rule) Fires(text string) bool {
	return r.Pattern.MatchString(text) != r.Absent
}

// RuleSet is an additive table of rules scored against one text.
type RuleSet []Rule

func (rs RuleSet) Score(text string) float64 {
	total := 0.0
	for _, r := range rs {
		if r.Fires(text) {
			total += r.Points
		}
	}
	return total
}

func kw(pattern string) *regexp.Regexp {
	return regexp.MustCompile("(?i)(" + pattern + ")")
}

func present(name, pattern string, points float64) Rule {
	return Rule{Name: name, Pattern: kw(pattern), Points: points}
}

func absent(name, pattern string, points float64) Rule {
	return Rule{Name: name, Pattern: kw(pattern), Points: points, Absent: true}
}

// SubScore declares a named component of a category and its upper bound.
type SubScore struct {
	Key string
	Max float64
}

// CategorySpec declares one scoring dimension: its weight in the 0-100 total
// and the sub-scores whose sum forms its raw score.
type CategorySpec struct {
	Name      string
	Weight    float64
	SubScores []SubScore
}

func (c CategorySpec) MaxRaw() float64 {
	total := 0.0
	for _, s := range c.SubScores {
		total += s.Max
	}
	return total
}

// Categories lists the five dimensions in declaration order.
var Categories = []CategorySpec{
	{Name: CategoryNicheClarity, Weight: 25, SubScores: []SubScore{
		{"icp_specificity", 10}, {"problem_clarity", 5}, {"market_narrowness", 5}, {"language_specificity", 5},
	}},
	{Name: CategoryPositioning, Weight: 25, SubScores: []SubScore{
		{"outcome_promise", 10}, {"unique_mechanism", 5}, {"differentiation", 5}, {"category_clarity", 5},
	}},
	{Name: CategoryPricingFit, Weight: 15, SubScores: []SubScore{
		{"price_value_alignment", 5}, {"tier_clarity", 5}, {"psychological_pricing", 5},
	}},
	{Name: CategoryConversionStrength, Weight: 20, SubScores: []SubScore{
		{"headline_clarity", 5}, {"cta_strength", 5}, {"social_proof", 5}, {"risk_reversal", 5},
	}},
	{Name: CategoryTrafficClarity, Weight: 15, SubScores: []SubScore{
		{"acquisition_channel", 5}, {"first_10_user_plan", 5}, {"repeatable_loop", 5},
	}},
}

func specFor(name string) CategorySpec {
	for _, c := range Categories {
		if c.Name == name {
			return c
		}
	}
	return CategorySpec{Name: name}
}

// Market clarity tables.
var (
	icpRules = RuleSet{
		present("role", "founder|ceo|manager|director|developer|designer|marketer", 3),
		present("industry", "saas|ecommerce|healthcare|finance|education|real estate|legal", 3),
		present("size", "startup|small business|enterprise|solo|team|company", 2),
		present("pain", "struggling|problem|challenge|issue|pain|frustrated", 2),
	}
	problemClarityRules = RuleSet{
		present("problem", "problem|issue|challenge|pain|struggle|frustration|difficulty", 1.5),
		present("outcome", "save|increase|reduce|improve|automate|eliminate", 1.5),
		present("quantifiable", `\$|percent|%|hours|minutes|days|times|faster`, 1),
		present("emotional_cost", "stress|overwhelm|waste|miss|lose|fail", 1),
	}
	languageRules = RuleSet{
		absent("no_jargon", "solution|platform|tool|system|software|app", 1.5),
		absent("no_vague", "better|improve|enhance|optimize|streamline|leverage", 1.5),
		present("metric_terms", "revenue|conversion|retention|churn|mrr|arr|cac|ltv", 1),
		present("action_verbs", "ship|launch|scale|grow|acquire|convert|retain", 1),
	}
	genericAudience = kw("everyone|anyone|all|business|people|users")
)

// Positioning tables.
var (
	outcomePromiseRules = RuleSet{
		present("outcome_verb", "increase|decrease|save|reduce|eliminate|achieve|reach|get", 2),
		present("quantifiable", `\$|percent|%|hours|minutes|days|times|faster|more|less`, 3),
		present("timeframe", "in [0-9]|within|by|before|after|daily|weekly|monthly", 2),
		present("emotional_or_avoidance", "confidence|peace|freedom|control|clarity|success|avoid|prevent|stop|eliminate|never|no more", 3),
	}
	mechanismRules = RuleSet{
		present("method", "using|via|through|with|method|approach|system|way", 2),
		present("tech", "ai|ml|algorithm|automation|integration|api|workflow", 1.5),
		present("process", "step|process|flow|sequence|pipeline", 1.5),
	}
	categoryClarityRules = RuleSet{
		present("category_noun", "platform|tool|software|app|system|service|solution", 2),
		present("specific_category", "crm|analytics|automation|dashboard|saas|marketplace|api", 2),
		absent("not_all_in_one", "all-in-one|complete|comprehensive|everything|universal", 1),
	}
)

// Pricing tables.
var (
	alignmentComplexFeature   = kw("ai|automation|integration|api|analytics|dashboard")
	recommendedComplexFeature = kw("ai|automation|integration|api|analytics")
	psychologicalPrices       = []float64{19, 29, 49, 79, 99, 149, 199, 299}
	snapPrices                = []float64{19, 29, 49, 79, 99}
)

// Conversion tables.
var (
	headlineRules = RuleSet{
		present("outcome", "increase|save|reduce|eliminate|achieve|get", 1.5),
		present("specific_benefit", `\$|percent|%|hours|minutes|times|faster`, 1.5),
		present("target_user", "for|help|enables|lets", 1),
		absent("not_vague", "better|improve|enhance|optimize|solution|platform", 1),
	}
	vagueDescription = kw("better|improve|enhance|optimize|solution|platform|tool")
	genericTarget    = kw("everyone|anyone|all|business|people")
)

// Traffic tables.
var channelMention = kw("twitter|linkedin|reddit|indie hackers|product hunt|hacker news|youtube|content|seo|paid ads|email|community")

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// formatPrice renders a price the way it appears in advisory text: no
// trailing zeros, no thousands separators.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
