package revenue

import (
	"errors"
	"fmt"
	"math"
)

// LockedText replaces every advisory string in a preview report.
const LockedText = "[Full analysis locked]"

const (
	CategoryNicheClarity       = "Niche Clarity"
	CategoryPositioning        = "Positioning Strength"
	CategoryPricingFit         = "Pricing Fit"
	CategoryConversionStrength = "Conversion Strength"
	CategoryTrafficClarity     = "Traffic Clarity"
)

type Interpretation string

const (
	InterpretationGuessing   Interpretation = "Guessing"
	InterpretationBuilding   Interpretation = "Building not selling"
	InterpretationUnclear    Interpretation = "Close but unclear"
	InterpretationReady      Interpretation = "Revenue ready"
	InterpretationAggressive Interpretation = "Aggressive growth mode"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ScrapedWebsite is the copy extracted from a product's live site.
type ScrapedWebsite struct {
	Title          string   `json:"title"`
	H1             []string `json:"h1"`
	H2             []string `json:"h2"`
	HeroCopy       string   `json:"hero_copy"`
	PricingSection string   `json:"pricing_section"`
	CTAButtons     []string `json:"cta_buttons"`
	Testimonials   []string `json:"testimonials"`
	RawTextSample  string   `json:"raw_text_sample"`
	Success        bool     `json:"success"`
	Error          string   `json:"error,omitempty"`
}

// Input describes one SaaS product to score. Callers validate it before
// handing it to the engine.
type Input struct {
	ProductName     string          `json:"product_name" yaml:"product_name"`
	Description     string          `json:"description" yaml:"description"`
	TargetUserGuess string          `json:"target_user_guess" yaml:"target_user_guess"`
	PricingModel    string          `json:"pricing_model" yaml:"pricing_model"`
	MonthlyPrice    float64         `json:"monthly_price" yaml:"monthly_price"`
	WebsiteURL      string          `json:"website_url" yaml:"website_url"`
	FeatureList     []string        `json:"feature_list" yaml:"feature_list"`
	Competitors     []string        `json:"competitors" yaml:"competitors"`
	ScrapedWebsite  *ScrapedWebsite `json:"scraped_website,omitempty" yaml:"-"`
}

var ErrInvalidInput = errors.New("invalid input")

// Validate rejects input the engine does not accept. Empty strings and lists
// are valid.
func (in Input) Validate() error {
	if math.IsNaN(in.MonthlyPrice) || math.IsInf(in.MonthlyPrice, 0) {
		return fmt.Errorf("%w: monthly_price must be a finite number", ErrInvalidInput)
	}
	if in.MonthlyPrice < 0 {
		return fmt.Errorf("%w: monthly_price must be >= 0", ErrInvalidInput)
	}
	return nil
}

// Normalize returns a copy with nil lists replaced by empty ones so every
// report serializes with all fields present.
func (in Input) Normalize() Input {
	out := in
	if out.FeatureList == nil {
		out.FeatureList = []string{}
	}
	if out.Competitors == nil {
		out.Competitors = []string{}
	}
	return out
}

type MarketClarityOutput struct {
	ICPSpecificity      float64 `json:"icp_specificity"`
	ProblemClarity      float64 `json:"problem_clarity"`
	MarketNarrowness    float64 `json:"market_narrowness"`
	LanguageSpecificity float64 `json:"language_specificity"`
	NicheRewrite        string  `json:"niche_rewrite"`
	ProblemStatement    string  `json:"problem_statement"`
	TargetICP           string  `json:"target_icp"`
	MarketAnalysis      string  `json:"market_analysis"`
}

type PositioningOutput struct {
	OutcomePromise          float64 `json:"outcome_promise"`
	UniqueMechanism         float64 `json:"unique_mechanism"`
	Differentiation         float64 `json:"differentiation"`
	CategoryClarity         float64 `json:"category_clarity"`
	PositioningRewrite      string  `json:"positioning_rewrite"`
	UniqueValueProp         string  `json:"unique_value_prop"`
	CategoryDefinition      string  `json:"category_definition"`
	DifferentiationAnalysis string  `json:"differentiation_analysis"`
}

type PricingOutput struct {
	PriceValueAlignment  float64 `json:"price_value_alignment"`
	TierClarity          float64 `json:"tier_clarity"`
	PsychologicalPricing float64 `json:"psychological_pricing"`
	PricingFeedback      string  `json:"pricing_feedback"`
	RecommendedPrice     float64 `json:"recommended_price"`
	PricingStrategy      string  `json:"pricing_strategy"`
	TierRecommendations  string  `json:"tier_recommendations"`
}

type ConversionOutput struct {
	HeadlineClarity            float64  `json:"headline_clarity"`
	CTAStrength                float64  `json:"cta_strength"`
	SocialProof                float64  `json:"social_proof"`
	RiskReversal               float64  `json:"risk_reversal"`
	ConversionKillers          []string `json:"conversion_killers"`
	HeadlineRewrite            string   `json:"headline_rewrite"`
	CTARewrite                 string   `json:"cta_rewrite"`
	SocialProofRecommendations string   `json:"social_proof_recommendations"`
	RiskReversalTactics        string   `json:"risk_reversal_tactics"`
}

type TrafficOutput struct {
	AcquisitionChannel  float64 `json:"acquisition_channel"`
	First10UserPlan     float64 `json:"first_10_user_plan"`
	RepeatableLoop      float64 `json:"repeatable_loop"`
	ChannelAnalysis     string  `json:"channel_analysis"`
	First10Plan         string  `json:"first_10_plan"`
	AcquisitionStrategy string  `json:"acquisition_strategy"`
	GrowthLoop          string  `json:"growth_loop"`
}

type PriorityAction struct {
	Action    string `json:"action"`
	Priority  int    `json:"priority"`
	Timeframe string `json:"timeframe"`
	Impact    string `json:"impact"`
}

type ActionPlan struct {
	PriorityActions []PriorityAction `json:"priority_actions"`
	QuickWins       []string         `json:"quick_wins"`
	StrategicMoves  []string         `json:"strategic_moves"`
	Timeline        string           `json:"timeline"`
}

type CategoryScore struct {
	Category      string             `json:"category"`
	RawScore      float64            `json:"raw_score"`
	WeightedScore float64            `json:"weighted_score"`
	MaxPossible   float64            `json:"max_possible"`
	Breakdown     map[string]float64 `json:"breakdown"`
}

type ImprovementPriority struct {
	Category string  `json:"category"`
	Priority float64 `json:"priority"`
	Reason   string  `json:"reason"`
}

type AdvancedMetadata struct {
	RiskLevel               RiskLevel `json:"risk_level"`
	RevenueLeakageIndicator string    `json:"revenue_leakage_indicator"`
	ConfidenceScore         int       `json:"confidence_score"`
}

type Score struct {
	TotalScore            int                   `json:"total_score"`
	Interpretation        Interpretation        `json:"interpretation"`
	Advanced              AdvancedMetadata      `json:"advanced"`
	CategoryScores        []CategoryScore       `json:"category_scores"`
	ImprovementPriorities []ImprovementPriority `json:"improvement_priorities"`
}

// Category returns the named category score and whether it exists.
func (s Score) Category(name string) (CategoryScore, bool) {
	for _, c := range s.CategoryScores {
		if c.Category == name {
			return c, true
		}
	}
	return CategoryScore{}, false
}

type Report struct {
	Input         Input               `json:"input"`
	MarketClarity MarketClarityOutput `json:"market_clarity"`
	Positioning   PositioningOutput   `json:"positioning"`
	Pricing       PricingOutput       `json:"pricing"`
	Conversion    ConversionOutput    `json:"conversion"`
	Traffic       TrafficOutput       `json:"traffic"`
	ActionPlan    ActionPlan          `json:"action_plan"`
	Score         Score               `json:"score"`
	Preview       bool                `json:"preview,omitempty"`
}

type CategoryDelta struct {
	Category string  `json:"category"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Delta    float64 `json:"delta"`
}

type Comparison struct {
	PreviousScore  int             `json:"previous_score"`
	CurrentScore   int             `json:"current_score"`
	Delta          int             `json:"delta"`
	CategoryDeltas []CategoryDelta `json:"category_deltas"`
}
