package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Pattern struct {
	ProjectID           string             `json:"project_id"`
	NicheCategory       string             `json:"niche_category"`
	CategoryScores      map[string]float64 `json:"category_scores"`
	TopKillers          []string           `json:"top_killers"`
	PricingIssueFlag    bool               `json:"pricing_issue_flag"`
	ConversionIssueFlag bool               `json:"conversion_issue_flag"`
}

// GlobalInsights holds running means over every full analysis.
type GlobalInsights struct {
	AvgTotalScore       float64   `db:"avg_total_score" json:"avg_total_score"`
	AvgNicheScore       float64   `db:"avg_niche_score" json:"avg_niche_score"`
	AvgPositioningScore float64   `db:"avg_positioning_score" json:"avg_positioning_score"`
	AvgPricingScore     float64   `db:"avg_pricing_score" json:"avg_pricing_score"`
	AvgConversionScore  float64   `db:"avg_conversion_score" json:"avg_conversion_score"`
	AvgTrafficScore     float64   `db:"avg_traffic_score" json:"avg_traffic_score"`
	MostCommonKiller    string    `db:"most_common_killer" json:"most_common_killer"`
	TotalAnalyzed       int       `db:"total_analyzed" json:"total_analyzed"`
	UpdatedAt           time.Time `db:"-" json:"updated_at"`
}

type CaseSnapshot struct {
	SummaryText     string    `json:"summary_text"`
	Niche           string    `json:"niche"`
	BeforeScore     *int      `json:"before_score,omitempty"`
	AfterScore      int       `json:"after_score"`
	ImprovementArea string    `json:"improvement_area"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *Store) InsertPattern(ctx context.Context, p Pattern) error {
	scores, err := json.Marshal(p.CategoryScores)
	if err != nil {
		return fmt.Errorf("encode category scores: %w", err)
	}
	killers, err := json.Marshal(p.TopKillers)
	if err != nil {
		return fmt.Errorf("encode killers: %w", err)
	}
	q := s.db.Rebind(`INSERT INTO analysis_patterns
		(id, project_id, niche_category, category_scores, top_killers, pricing_issue_flag, conversion_issue_flag, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = s.db.ExecContext(ctx, q, uuid.NewString(), p.ProjectID, p.NicheCategory, string(scores), string(killers),
		boolInt(p.PricingIssueFlag), boolInt(p.ConversionIssueFlag), s.timestamp())
	if err != nil {
		return fmt.Errorf("insert pattern: %w", err)
	}
	return nil
}

func (s *Store) CountPatterns(ctx context.Context, projectID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM analysis_patterns WHERE project_id = ?`), projectID)
	return n, err
}

// GetGlobalInsights returns ErrNotFound before the first analysis.
func (s *Store) GetGlobalInsights(ctx context.Context) (GlobalInsights, error) {
	var row struct {
		GlobalInsights
		UpdatedAt string `db:"updated_at"`
	}
	q := `SELECT avg_total_score, avg_niche_score, avg_positioning_score, avg_pricing_score, avg_conversion_score,
		avg_traffic_score, most_common_killer, total_analyzed, updated_at FROM global_insights WHERE id = 1`
	if err := s.db.GetContext(ctx, &row, q); err != nil {
		return GlobalInsights{}, notFound(err)
	}
	g := row.GlobalInsights
	g.UpdatedAt = parseTime(row.UpdatedAt)
	return g, nil
}

// SaveGlobalInsights replaces the single insights row.
func (s *Store) SaveGlobalInsights(ctx context.Context, g GlobalInsights) error {
	q := s.db.Rebind(`INSERT INTO global_insights
		(id, avg_total_score, avg_niche_score, avg_positioning_score, avg_pricing_score, avg_conversion_score,
		 avg_traffic_score, most_common_killer, total_analyzed, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			avg_total_score = excluded.avg_total_score,
			avg_niche_score = excluded.avg_niche_score,
			avg_positioning_score = excluded.avg_positioning_score,
			avg_pricing_score = excluded.avg_pricing_score,
			avg_conversion_score = excluded.avg_conversion_score,
			avg_traffic_score = excluded.avg_traffic_score,
			most_common_killer = excluded.most_common_killer,
			total_analyzed = excluded.total_analyzed,
			updated_at = excluded.updated_at`)
	_, err := s.db.ExecContext(ctx, q, g.AvgTotalScore, g.AvgNicheScore, g.AvgPositioningScore, g.AvgPricingScore,
		g.AvgConversionScore, g.AvgTrafficScore, g.MostCommonKiller, g.TotalAnalyzed, s.timestamp())
	if err != nil {
		return fmt.Errorf("save global insights: %w", err)
	}
	return nil
}

func (s *Store) InsertCaseSnapshot(ctx context.Context, c CaseSnapshot) error {
	var before sql.NullInt64
	if c.BeforeScore != nil {
		before = sql.NullInt64{Int64: int64(*c.BeforeScore), Valid: true}
	}
	q := s.db.Rebind(`INSERT INTO case_snapshots (id, summary_text, niche, before_score, after_score, improvement_area, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, q, uuid.NewString(), c.SummaryText, c.Niche, before, c.AfterScore, c.ImprovementArea, s.timestamp()); err != nil {
		return fmt.Errorf("insert case snapshot: %w", err)
	}
	return nil
}

// RecentCaseSnapshots returns up to limit snapshots, newest first.
func (s *Store) RecentCaseSnapshots(ctx context.Context, limit int) ([]CaseSnapshot, error) {
	var rows []struct {
		SummaryText     string        `db:"summary_text"`
		Niche           string        `db:"niche"`
		BeforeScore     sql.NullInt64 `db:"before_score"`
		AfterScore      int           `db:"after_score"`
		ImprovementArea string        `db:"improvement_area"`
		CreatedAt       string        `db:"created_at"`
	}
	q := s.db.Rebind(`SELECT summary_text, niche, before_score, after_score, improvement_area, created_at
		FROM case_snapshots ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("list case snapshots: %w", err)
	}
	out := make([]CaseSnapshot, 0, len(rows))
	for _, r := range rows {
		c := CaseSnapshot{
			SummaryText:     r.SummaryText,
			Niche:           r.Niche,
			AfterScore:      r.AfterScore,
			ImprovementArea: r.ImprovementArea,
			CreatedAt:       parseTime(r.CreatedAt),
		}
		if r.BeforeScore.Valid {
			v := int(r.BeforeScore.Int64)
			c.BeforeScore = &v
		}
		out = append(out, c)
	}
	return out, nil
}
