package revenue

import (
	"math"
	"strings"
	"testing"
)

func emptyInput() Input {
	return Input{
		ProductName:     "X",
		TargetUserGuess: "everyone",
		FeatureList:     []string{},
		Competitors:     []string{},
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestMarketClarityGenericAudience(t *testing.T) {
	out := AnalyzeMarketClarity(emptyInput())
	if out.ICPSpecificity != 0 {
		t.Fatalf("icp_specificity: got %v want 0", out.ICPSpecificity)
	}
	if out.ProblemClarity != 0 {
		t.Fatalf("problem_clarity: got %v want 0", out.ProblemClarity)
	}
	if out.MarketNarrowness != 3 {
		t.Fatalf("market_narrowness: got %v want 3", out.MarketNarrowness)
	}
	if out.LanguageSpecificity != 3 {
		t.Fatalf("language_specificity: got %v want 3", out.LanguageSpecificity)
	}
	if !strings.HasPrefix(out.NicheRewrite, "Micro SaaS founders stuck at $0-$500 MRR") {
		t.Fatalf("unexpected niche rewrite: %q", out.NicheRewrite)
	}
	if !strings.HasPrefix(out.MarketAnalysis, "No direct competitors identified.") {
		t.Fatalf("unexpected market analysis: %q", out.MarketAnalysis)
	}
}

func TestICPSpecificityAllSignals(t *testing.T) {
	got := scoreICPSpecificity("SaaS founder at a small startup struggling with churn")
	if got != 10 {
		t.Fatalf("got %v want 10", got)
	}
}

func TestMarketNarrownessCompetitorBrackets(t *testing.T) {
	cases := []struct {
		target      string
		competitors int
		want        float64
	}{
		{"dentists", 0, 5},
		{"dentists", 5, 5},
		{"dentists", 6, 4},
		{"dentists", 11, 3.5},
		{"small business owners", 11, 1.5},
		{"people", 0, 3},
	}
	for _, tc := range cases {
		if got := scoreMarketNarrowness(tc.target, tc.competitors); got != tc.want {
			t.Fatalf("narrowness(%q, %d): got %v want %v", tc.target, tc.competitors, got, tc.want)
		}
	}
}

func TestProblemClarityRoundsAndCaps(t *testing.T) {
	got := scoreProblemClarity("Founders waste 10 hours a week on the problem; we automate it")
	if got != 5 {
		t.Fatalf("got %v want 5", got)
	}
	if got := scoreProblemClarity("we save money"); got != 1.5 {
		t.Fatalf("got %v want 1.5", got)
	}
}

func TestNicheRewriteBranches(t *testing.T) {
	in := emptyInput()
	in.TargetUserGuess = "Indie founders"
	if got := nicheRewrite(in); got != "Indie founders who are pre-revenue or under $1K MRR, specifically struggling with customer acquisition and conversion." {
		t.Fatalf("unexpected: %q", got)
	}
	in.TargetUserGuess = "dentists"
	if got := nicheRewrite(in); !strings.HasPrefix(got, "dentists who are actively struggling with") {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestPositioningUniqueMechanismCompetitorOverlap(t *testing.T) {
	desc := "stripe analytics using ai"
	if got := scoreUniqueMechanism(desc, nil); got != 3.5 {
		t.Fatalf("no competitors: got %v want 3.5", got)
	}
	if got := scoreUniqueMechanism(desc, []string{"Stripe"}); got != 2.5 {
		t.Fatalf("overlapping competitor: got %v want 2.5", got)
	}
	if got := scoreUniqueMechanism("", []string{"Acme"}); got != 0 {
		t.Fatalf("floor: got %v want 0", got)
	}
}

func TestPositioningDifferentiation(t *testing.T) {
	desc := "automated invoice reminders for freelance designers"
	if got := scoreDifferentiation(desc, nil); got != 2.5 {
		t.Fatalf("no competitors: got %v want 2.5", got)
	}
	got := scoreDifferentiation(desc, []string{"invoice reminders freelance tool", "Acme CRM"})
	if got != 3.5 {
		t.Fatalf("one of two similar: got %v want 3.5", got)
	}
	got = scoreDifferentiation(desc, []string{"invoice reminders freelance tool"})
	if got != 2 {
		t.Fatalf("all similar: got %v want 2", got)
	}
}

func TestPositioningRewriteTemplate(t *testing.T) {
	in := Input{
		ProductName:     "Dunning",
		Description:     "A platform to increase recovered revenue",
		TargetUserGuess: "SaaS founders",
		Competitors:     []string{"Churnkey"},
	}
	got := AnalyzePositioning(in).PositioningRewrite
	want := "For SaaS founders who need [outcome], Dunning is the platform that increases [metric]. Unlike Churnkey, we use [unique method] to achieve [outcome]."
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestTierClarityLadder(t *testing.T) {
	cases := map[string]float64{
		"Starter/Pro/Enterprise": 5,
		"Free, Pro, Enterprise":  5,
		"Pro and Enterprise":     4,
		"Basic":                  4,
		"three plans":            3,
		"package deal":           3,
		"flat fee":               2,
		"monthly":                1,
		"":                       1,
	}
	for model, want := range cases {
		if got := scoreTierClarity(model); got != want {
			t.Fatalf("tier_clarity(%q): got %v want %v", model, got, want)
		}
	}
}

func TestPsychologicalPricing(t *testing.T) {
	cases := map[float64]float64{19: 5, 299: 5, 20: 3, 25: 3, 0: 3, 17: 2, 17.5: 2}
	for price, want := range cases {
		if got := scorePsychologicalPricing(price); got != want {
			t.Fatalf("psychological_pricing(%v): got %v want %v", price, got, want)
		}
	}
}

func TestPriceValueAlignment(t *testing.T) {
	five := []string{"a", "b", "c", "d", "e"}
	cases := []struct {
		name     string
		price    float64
		features []string
		want     float64
	}{
		{"sweet spot", 19, nil, 3.5},
		{"cheap with five features", 5, five, 1},
		{"cheap with complex feature", 5, []string{"API access"}, 1},
		{"expensive simple product", 150, []string{"export"}, 1},
		{"five features at 29", 29, five, 4},
		{"base", 0, nil, 2.5},
	}
	for _, tc := range cases {
		if got := scorePriceValueAlignment(tc.price, tc.features); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestRecommendedPrice(t *testing.T) {
	five := []string{"AI summaries", "b", "c", "d", "e"}
	cases := []struct {
		price    float64
		features []string
		want     float64
	}{
		{19, nil, 19},
		{24, nil, 19},
		{64, nil, 49},
		{90, nil, 99},
		{5, five, 79},
		{150, []string{"a", "b", "c"}, 49},
		{0, nil, 29},
	}
	for _, tc := range cases {
		if got := recommendedPrice(tc.price, tc.features); got != tc.want {
			t.Fatalf("recommended(%v): got %v want %v", tc.price, got, tc.want)
		}
	}
}

func TestPricingScenarioStarterProEnterprise(t *testing.T) {
	in := emptyInput()
	in.MonthlyPrice = 19
	in.PricingModel = "Starter/Pro/Enterprise"
	out := AnalyzePricing(in)
	if out.TierClarity != 5 || out.PsychologicalPricing != 5 {
		t.Fatalf("tier=%v psych=%v", out.TierClarity, out.PsychologicalPricing)
	}
	if out.PriceValueAlignment != 3.5 {
		t.Fatalf("expected [19,99] bonus, got %v", out.PriceValueAlignment)
	}
	if out.PricingFeedback != "Price in good range ($19/mo). This is the sweet spot for self-serve SaaS. Ensure your value prop justifies it." {
		t.Fatalf("unexpected feedback: %q", out.PricingFeedback)
	}
}

func TestTierRecommendationsRoundsStarter(t *testing.T) {
	got := tierRecommendations(49, "single price")
	want := "Single price point: Consider adding Starter ($29) and Growth ($49) tiers. Starter removes friction, Growth is your target."
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	got = tierRecommendations(30, "")
	if !strings.Contains(got, "Starter ($18/mo)") || !strings.Contains(got, "Launch Mode ($60/mo)") {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestConversionKillersOrder(t *testing.T) {
	in := Input{
		ProductName:     "Y",
		Description:     "A better tool",
		TargetUserGuess: "business owners",
		MonthlyPrice:    79,
	}
	got := AnalyzeConversion(in).ConversionKillers
	want := []string{KillerVagueHeadline, KillerNoWebsite, KillerGenericTarget, KillerHighPrice, KillerNoFeatureList}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("killer %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestConversionEmptyFeaturesAndWebsite(t *testing.T) {
	out := AnalyzeConversion(emptyInput())
	has := func(k string) bool {
		for _, v := range out.ConversionKillers {
			if v == k {
				return true
			}
		}
		return false
	}
	if !has(KillerNoFeatureList) || !has(KillerNoWebsite) {
		t.Fatalf("missing killers: %v", out.ConversionKillers)
	}
	if out.CTAStrength != 1 || out.SocialProof != 1 || out.RiskReversal != 1.5 {
		t.Fatalf("unexpected flat scores: %+v", out)
	}
	if out.HeadlineClarity != 1 {
		t.Fatalf("headline_clarity: got %v want 1", out.HeadlineClarity)
	}
}

func TestConversionTeamWordingSuppressesPriceKiller(t *testing.T) {
	in := emptyInput()
	in.MonthlyPrice = 99
	in.Description = "Built for team workspaces"
	for _, k := range AnalyzeConversion(in).ConversionKillers {
		if k == KillerHighPrice {
			t.Fatal("high price killer should not fire with team wording")
		}
	}
}

func TestCTARewriteBrackets(t *testing.T) {
	cases := map[float64]string{0: "Start Free Trial", 29.99: "Start Free Trial", 30: "Start Your Free Trial", 99: "Start Your Free Trial", 100: "Book a Demo"}
	for price, want := range cases {
		if got := ctaRewrite(price); got != want {
			t.Fatalf("cta(%v): got %q want %q", price, got, want)
		}
	}
}

func TestTrafficAcquisitionChannel(t *testing.T) {
	if got := scoreAcquisitionChannel("", "we grow through SEO"); got != 3 {
		t.Fatalf("channel mention: got %v", got)
	}
	if got := scoreAcquisitionChannel("https://example.io", "invoices"); got != 2 {
		t.Fatalf("website only: got %v", got)
	}
	if got := scoreAcquisitionChannel("", ""); got != 1 {
		t.Fatalf("nothing: got %v", got)
	}
}

func TestTrafficTemplates(t *testing.T) {
	in := Input{ProductName: "Shipfast", TargetUserGuess: "backend developers", Description: "automate deploys", MonthlyPrice: 49}
	out := AnalyzeTraffic(in)
	if !strings.HasPrefix(out.ChannelAnalysis, "Your target (backend developers) is on: Twitter/X, GitHub") {
		t.Fatalf("unexpected channel analysis: %q", out.ChannelAnalysis)
	}
	if !strings.Contains(out.First10Plan, `Find 50 backend developers on [primary channel]. DM/email: "I built Shipfast to solve`) {
		t.Fatalf("unexpected plan: %q", out.First10Plan)
	}
	if !strings.HasPrefix(out.AcquisitionStrategy, "Mid-price strategy") {
		t.Fatalf("unexpected strategy: %q", out.AcquisitionStrategy)
	}
	if !strings.HasPrefix(out.GrowthLoop, "Growth loop: User saves time") {
		t.Fatalf("unexpected loop: %q", out.GrowthLoop)
	}
}

func TestAnalyzersStayInBounds(t *testing.T) {
	inputs := []Input{
		emptyInput(),
		{
			ProductName:     "RevenueZero",
			Description:     "Increase MRR 30% in 30 days using an AI pipeline. Stop the stress of churn, save hours weekly with automation for SaaS founders.",
			TargetUserGuess: "SaaS founders at small startups struggling with revenue",
			PricingModel:    "Free, Pro, Enterprise plans",
			MonthlyPrice:    49,
			WebsiteURL:      "https://revenuezero.io",
			FeatureList:     []string{"AI diagnosis", "Analytics dashboard", "API", "Slack integration", "Exports"},
			Competitors:     []string{"Baremetrics", "ProfitWell", "ChartMogul", "a", "b", "c", "d", "e", "f", "g", "h", "i"},
		},
		{ProductName: "Z", MonthlyPrice: 5000, Description: strings.Repeat("everything ", 50)},
	}
	for _, in := range inputs {
		o := Outputs{
			MarketClarity: AnalyzeMarketClarity(in),
			Positioning:   AnalyzePositioning(in),
			Pricing:       AnalyzePricing(in),
			Conversion:    AnalyzeConversion(in),
			Traffic:       AnalyzeTraffic(in),
		}
		for _, spec := range Categories {
			bd := o.breakdown(spec.Name)
			for _, sub := range spec.SubScores {
				v, ok := bd[sub.Key]
				if !ok {
					t.Fatalf("%s missing %s", spec.Name, sub.Key)
				}
				if v < 0 || v > sub.Max {
					t.Fatalf("%s.%s=%v outside [0,%v]", spec.Name, sub.Key, v, sub.Max)
				}
			}
		}
	}
}
