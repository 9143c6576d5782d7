package revenue

import (
	"fmt"
	"strings"
)

const first10PlanTemplate = `First 10 users plan:
1. Manual outreach: Find 50 %s on [primary channel]. DM/email: "I built %s to solve [problem]. Can I show you a quick demo? Free access for feedback."
2. Give value first: Share [relevant content/insight] before asking for signup.
3. Personal touch: Each of first 10 gets direct access to you. Build relationships.
4. Ask for feedback: "What would make you pay for this?" Listen. Iterate.
5. Ask for referrals: After they see value, "Know 2 others with this problem?"
Timeline: 30 days. Goal: 10 paying users or 10 committed beta users.`

func AnalyzeTraffic(in Input) TrafficOutput {
	return TrafficOutput{
		AcquisitionChannel:  scoreAcquisitionChannel(in.WebsiteURL, in.Description),
		First10UserPlan:     1.5,
		RepeatableLoop:      1,
		ChannelAnalysis:     channelAnalysis(in.TargetUserGuess),
		First10Plan:         fmt.Sprintf(first10PlanTemplate, in.TargetUserGuess, in.ProductName),
		AcquisitionStrategy: acquisitionStrategy(in.MonthlyPrice),
		GrowthLoop:          growthLoop(in.ProductName, strings.ToLower(in.Description)),
	}
}

func scoreAcquisitionChannel(website, description string) float64 {
	switch {
	case channelMention.MatchString(strings.ToLower(website + " " + description)):
		return 3
	case website != "":
		return 2
	default:
		return 1
	}
}

func channelAnalysis(target string) string {
	t := strings.ToLower(target)
	switch {
	case containsAny(t, "founder", "startup", "saas"):
		return fmt.Sprintf("Your target (%s) is on: Twitter/X (build in public), Indie Hackers, Reddit (r/SaaS, r/entrepreneur), LinkedIn (founder groups), Micro SaaS communities. Pick ONE channel, go deep.", target)
	case containsAny(t, "developer", "engineer"):
		return fmt.Sprintf("Your target (%s) is on: Twitter/X, GitHub, Dev.to, Hacker News, Reddit (r/programming), Discord communities. Technical audience = technical channels.", target)
	case containsAny(t, "marketer", "marketing"):
		return fmt.Sprintf("Your target (%s) is on: LinkedIn, Twitter/X, marketing communities, email lists, industry forums. B2B marketers = LinkedIn + email.", target)
	default:
		return fmt.Sprintf("Define your primary acquisition channel. Where does %s spend time online? Go there. One channel, deep focus, not scattered.", target)
	}
}

func acquisitionStrategy(price float64) string {
	switch {
	case price < 30:
		return "Low-price strategy: Focus on volume channels. Twitter/X threads, Reddit posts, Indie Hackers posts. Content that demonstrates value, then CTA. Self-serve signup."
	case price < 100:
		return "Mid-price strategy: Mix of content (demonstrates value) + direct outreach (builds trust). LinkedIn posts, Twitter threads, email sequences. Free trial to reduce friction."
	default:
		return "Higher-price strategy: Requires trust-building. Content marketing (case studies, deep dives), webinars, demos, founder-led sales. Slower but higher LTV."
	}
}

func growthLoop(product, desc string) string {
	switch {
	case containsAny(desc, "revenue", "growth", "analytics"):
		return fmt.Sprintf("Growth loop: User gets value → Shares result/insight → Others see value → Sign up → Loop continues. For %s: Users share their revenue score/insights → Others want same analysis → Sign up. Make sharing easy (one-click share, embeddable results).", product)
	case containsAny(desc, "productivity", "automate"):
		return "Growth loop: User saves time → Shares time saved/result → Others want same efficiency → Sign up. Make results shareable (screenshots, metrics, before/after)."
	default:
		return "Growth loop: User achieves outcome → Shares outcome → Others want outcome → Sign up. Design your product so success is visible and shareable. Build sharing into product."
	}
}
