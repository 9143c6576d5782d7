// Package insights folds every full analysis into cross-project statistics.
package insights

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
	"github.com/joelkehle/revenue-readiness/internal/store"
)

const (
	nicheIdentified  = "identified"
	nicheGeneral     = "general"
	pricingIssueMax  = 8
	convIssueMax     = 10
	maxPatternKiller = 5
)

type Repository interface {
	InsertPattern(ctx context.Context, p store.Pattern) error
	GetGlobalInsights(ctx context.Context) (store.GlobalInsights, error)
	SaveGlobalInsights(ctx context.Context, g store.GlobalInsights) error
	InsertCaseSnapshot(ctx context.Context, c store.CaseSnapshot) error
}

// ExtractPattern reduces a full report to the fields aggregated across
// projects.
func ExtractPattern(r revenue.Report, projectID string) store.Pattern {
	scores := make(map[string]float64, len(r.Score.CategoryScores))
	for _, c := range r.Score.CategoryScores {
		scores[c.Category] = c.WeightedScore
	}
	niche := nicheGeneral
	if c, ok := r.Score.Category(revenue.CategoryNicheClarity); ok {
		if _, ok := c.Breakdown["market_narrowness"]; ok {
			niche = nicheIdentified
		}
	}
	killers := r.Conversion.ConversionKillers
	if len(killers) > maxPatternKiller {
		killers = killers[:maxPatternKiller]
	}
	return store.Pattern{
		ProjectID:           projectID,
		NicheCategory:       niche,
		CategoryScores:      scores,
		TopKillers:          append([]string{}, killers...),
		PricingIssueFlag:    scoreOr(scores, revenue.CategoryPricingFit, 15) < pricingIssueMax,
		ConversionIssueFlag: scoreOr(scores, revenue.CategoryConversionStrength, 20) < convIssueMax,
	}
}

func scoreOr(scores map[string]float64, category string, fallback float64) float64 {
	if v, ok := scores[category]; ok {
		return v
	}
	return fallback
}

// Fold adds one analysis, with total score total, to the running means.
func Fold(prev store.GlobalInsights, p store.Pattern, total int) store.GlobalInsights {
	n := prev.TotalAnalyzed + 1
	mean := func(old, v float64) float64 {
		return math.Round((old*float64(n-1)+v)/float64(n)*100) / 100
	}
	next := store.GlobalInsights{
		AvgTotalScore:       mean(prev.AvgTotalScore, float64(total)),
		AvgNicheScore:       mean(prev.AvgNicheScore, p.CategoryScores[revenue.CategoryNicheClarity]),
		AvgPositioningScore: mean(prev.AvgPositioningScore, p.CategoryScores[revenue.CategoryPositioning]),
		AvgPricingScore:     mean(prev.AvgPricingScore, p.CategoryScores[revenue.CategoryPricingFit]),
		AvgConversionScore:  mean(prev.AvgConversionScore, p.CategoryScores[revenue.CategoryConversionStrength]),
		AvgTrafficScore:     mean(prev.AvgTrafficScore, p.CategoryScores[revenue.CategoryTrafficClarity]),
		MostCommonKiller:    prev.MostCommonKiller,
		TotalAnalyzed:       n,
	}
	if len(p.TopKillers) > 0 {
		next.MostCommonKiller = p.TopKillers[0]
	}
	return next
}

// Snapshot writes the one-line case summary for a report.
func Snapshot(r revenue.Report, niche string, previousScore *int) store.CaseSnapshot {
	worst := "positioning"
	if cats := r.Score.CategoryScores; len(cats) > 0 {
		w := cats[0]
		for _, c := range cats[1:] {
			if c.WeightedScore < w.WeightedScore {
				w = c
			}
		}
		worst = w.Category
	}
	total := r.Score.TotalScore
	s := store.CaseSnapshot{Niche: niche, BeforeScore: previousScore, AfterScore: total, ImprovementArea: worst}
	if previousScore != nil {
		s.SummaryText = fmt.Sprintf("SaaS in %s improved from %d → %d after fixing %s.", niche, *previousScore, total, worst)
	} else {
		s.SummaryText = fmt.Sprintf("SaaS in %s scored %d. Top priority: %s.", niche, total, worst)
	}
	return s
}

type Aggregator struct {
	repo Repository
	log  *logrus.Entry
}

func NewAggregator(repo Repository, log *logrus.Entry) *Aggregator {
	return &Aggregator{repo: repo, log: log.WithField("component", "insights")}
}

// Aggregate records the pattern, folds it into the global means and stores a
// case snapshot. previousScore is the project's prior total, if any.
func (a *Aggregator) Aggregate(ctx context.Context, r revenue.Report, projectID string, previousScore *int) error {
	p := ExtractPattern(r, projectID)
	if err := a.repo.InsertPattern(ctx, p); err != nil {
		return err
	}
	prev, err := a.repo.GetGlobalInsights(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load global insights: %w", err)
	}
	next := Fold(prev, p, r.Score.TotalScore)
	if err := a.repo.SaveGlobalInsights(ctx, next); err != nil {
		return err
	}
	if err := a.repo.InsertCaseSnapshot(ctx, Snapshot(r, p.NicheCategory, previousScore)); err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"project_id":     projectID,
		"total_analyzed": next.TotalAnalyzed,
		"avg_total":      next.AvgTotalScore,
	}).Debug("insights aggregated")
	return nil
}
