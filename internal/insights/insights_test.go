package insights

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
	"github.com/joelkehle/revenue-readiness/internal/store"
)

func report(total int, niche, pricing, conversion float64, killers ...string) revenue.Report {
	return revenue.Report{
		Score: revenue.Score{
			TotalScore: total,
			CategoryScores: []revenue.CategoryScore{
				{Category: revenue.CategoryNicheClarity, WeightedScore: niche, Breakdown: map[string]float64{"market_narrowness": 2}},
				{Category: revenue.CategoryPositioning, WeightedScore: 10},
				{Category: revenue.CategoryPricingFit, WeightedScore: pricing},
				{Category: revenue.CategoryConversionStrength, WeightedScore: conversion},
				{Category: revenue.CategoryTrafficClarity, WeightedScore: 5},
			},
		},
		Conversion: revenue.ConversionOutput{ConversionKillers: killers},
	}
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestExtractPattern(t *testing.T) {
	p := ExtractPattern(report(40, 8, 7.5, 12, "a", "b", "c", "d", "e", "f"), "p1")
	assert.Equal(t, "identified", p.NicheCategory)
	assert.True(t, p.PricingIssueFlag)
	assert.False(t, p.ConversionIssueFlag)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, p.TopKillers)
	assert.Equal(t, 7.5, p.CategoryScores[revenue.CategoryPricingFit])

	r := report(40, 8, 9, 9)
	r.Score.CategoryScores[0].Breakdown = map[string]float64{}
	p = ExtractPattern(r, "p1")
	assert.Equal(t, "general", p.NicheCategory)
	assert.False(t, p.PricingIssueFlag)
	assert.True(t, p.ConversionIssueFlag)
	assert.NotNil(t, p.TopKillers)
}

func TestFoldRunningMeans(t *testing.T) {
	g := Fold(store.GlobalInsights{}, ExtractPattern(report(40, 8, 9, 9, "k1"), "p1"), 40)
	assert.Equal(t, 1, g.TotalAnalyzed)
	assert.Equal(t, 40.0, g.AvgTotalScore)
	assert.Equal(t, "k1", g.MostCommonKiller)

	g = Fold(g, ExtractPattern(report(45, 9, 9, 9), "p2"), 45)
	assert.Equal(t, 42.5, g.AvgTotalScore)
	assert.Equal(t, 8.5, g.AvgNicheScore)
	assert.Equal(t, "k1", g.MostCommonKiller, "no killer keeps the previous one")

	g = Fold(g, ExtractPattern(report(50, 9, 9, 9, "k2"), "p3"), 50)
	assert.Equal(t, 45.0, g.AvgTotalScore)
	assert.Equal(t, 8.67, g.AvgNicheScore)
	assert.Equal(t, "k2", g.MostCommonKiller)
}

func TestSnapshot(t *testing.T) {
	r := report(58, 8, 9, 12)
	s := Snapshot(r, "identified", nil)
	assert.Equal(t, "SaaS in identified scored 58. Top priority: Traffic Clarity.", s.SummaryText)
	assert.Nil(t, s.BeforeScore)

	prev := 42
	s = Snapshot(r, "identified", &prev)
	assert.Equal(t, "SaaS in identified improved from 42 → 58 after fixing Traffic Clarity.", s.SummaryText)
	assert.Equal(t, "Traffic Clarity", s.ImprovementArea)

	assert.Contains(t, Snapshot(revenue.Report{}, "general", nil).SummaryText, "Top priority: positioning.")
}

func TestAggregatorPersists(t *testing.T) {
	s, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "insights.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	a := NewAggregator(s, quietLogger())
	require.NoError(t, a.Aggregate(ctx, report(40, 8, 9, 9, "k1"), "p1", nil))
	prev := 40
	require.NoError(t, a.Aggregate(ctx, report(60, 10, 9, 9), "p1", &prev))

	g, err := s.GetGlobalInsights(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, g.TotalAnalyzed)
	assert.Equal(t, 50.0, g.AvgTotalScore)
	assert.Equal(t, "k1", g.MostCommonKiller)

	n, err := s.CountPatterns(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snaps, err := s.RecentCaseSnapshots(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}
