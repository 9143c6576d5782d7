package revenue

import (
	"fmt"
	"strings"
)

// Conversion killer labels, in the order they are checked.
const (
	KillerVagueHeadline   = "Vague headline that doesn't promise specific outcome"
	KillerNoWebsite       = "No website or landing page"
	KillerGenericTarget   = "Generic target audience - visitors can't self-identify"
	KillerHighPrice       = "High price without enterprise positioning or risk reversal"
	KillerNoFeatureList   = "No clear feature list or value demonstration"
	socialProofAdviceText = `You're at $0 revenue, so traditional social proof (customer logos, testimonials) isn't available. ` +
		`Use: 1) Founder credibility (your background), 2) Early access badges ("Join 50 beta users"), ` +
		`3) Transparent metrics ("Built by founder who [achievement]"), 4) Demo report (show what analysis looks like), ` +
		`5) Money-back guarantee as proof of confidence.`
)

// AnalyzeConversion scores the landing page signals that can be inferred from
// the input. CTA, social proof and risk reversal are flat pre-revenue
// defaults since the live page is not inspected.
func AnalyzeConversion(in Input) ConversionOutput {
	desc := strings.ToLower(in.Description)
	ctaStrength := 2.5
	if in.WebsiteURL == "" {
		ctaStrength = 1
	}
	return ConversionOutput{
		HeadlineClarity:            clamp(round1(headlineRules.Score(strings.ToLower(in.ProductName)+" "+desc)), 0, 5),
		CTAStrength:                ctaStrength,
		SocialProof:                1,
		RiskReversal:               1.5,
		ConversionKillers:          conversionKillers(in, desc),
		HeadlineRewrite:            headlineRewrite(in.TargetUserGuess, desc),
		CTARewrite:                 ctaRewrite(in.MonthlyPrice),
		SocialProofRecommendations: socialProofAdviceText,
		RiskReversalTactics:        riskReversalTactics(in.MonthlyPrice),
	}
}

func conversionKillers(in Input, desc string) []string {
	killers := []string{}
	if vagueDescription.MatchString(desc) {
		killers = append(killers, KillerVagueHeadline)
	}
	if in.WebsiteURL == "" {
		killers = append(killers, KillerNoWebsite)
	}
	if genericTarget.MatchString(strings.ToLower(in.TargetUserGuess)) {
		killers = append(killers, KillerGenericTarget)
	}
	if in.MonthlyPrice > 50 && !containsAny(desc, "enterprise", "team") {
		killers = append(killers, KillerHighPrice)
	}
	if len(in.FeatureList) == 0 {
		killers = append(killers, KillerNoFeatureList)
	}
	return killers
}

func headlineRewrite(target, desc string) string {
	switch {
	case containsAny(desc, "revenue", "$0"):
		return "Stop Shipping. Start Selling."
	case containsAny(desc, "productivity", "automate"):
		return fmt.Sprintf("[Product Name] automates [specific task] for %s, saving [time/money].", target)
	default:
		return fmt.Sprintf("[Product Name] helps %s [achieve specific outcome] in [timeframe].", target)
	}
}

func ctaRewrite(price float64) string {
	switch {
	case price < 30:
		return "Start Free Trial"
	case price < 100:
		return "Start Your Free Trial"
	default:
		return "Book a Demo"
	}
}

func riskReversalTactics(price float64) string {
	p := formatPrice(price)
	if price < 50 {
		return fmt.Sprintf(`For $%s/mo, offer: 1) 30-day money-back guarantee, 2) Cancel anytime, 3) No credit card required for trial, 4) "If this doesn't [outcome], we'll refund you." Risk reversal removes friction.`, p)
	}
	return fmt.Sprintf("For $%s/mo, offer: 1) 14-day free trial, 2) Money-back guarantee, 3) Demo call to show value before purchase, 4) Case study or example output. Higher price = higher risk perception = need stronger reversal.", p)
}
