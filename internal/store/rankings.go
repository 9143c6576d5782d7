package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"
)

// DefaultNiche groups projects without a target user guess.
const DefaultNiche = "general"

type Ranking struct {
	ProjectID  string    `json:"project_id"`
	Score      int       `json:"score"`
	Percentile *float64  `json:"percentile"`
	Niche      string    `json:"niche"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type rankingRow struct {
	ProjectID  string          `db:"project_id"`
	Score      int             `db:"score"`
	Percentile sql.NullFloat64 `db:"percentile"`
	Niche      string          `db:"niche"`
	UpdatedAt  string          `db:"updated_at"`
}

// UpsertRanking records the project's latest score and returns its percentile
// within the niche: the share of niche projects with a strictly lower score,
// to one decimal. A project alone in its niche ranks 100.
func (s *Store) UpsertRanking(ctx context.Context, projectID string, score int, niche string) (float64, error) {
	if niche == "" {
		niche = DefaultNiche
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	upsert := tx.Rebind(`INSERT INTO project_rankings (project_id, score, niche, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id) DO UPDATE SET score = excluded.score, niche = excluded.niche, updated_at = excluded.updated_at`)
	if _, err := tx.ExecContext(ctx, upsert, projectID, score, niche, now); err != nil {
		return 0, fmt.Errorf("upsert ranking: %w", err)
	}

	var counts struct {
		Total int `db:"total"`
		Lower int `db:"lower_count"`
	}
	q := tx.Rebind(`SELECT COUNT(*) AS total, COALESCE(SUM(CASE WHEN score < ? THEN 1 ELSE 0 END), 0) AS lower_count
		FROM project_rankings WHERE niche = ?`)
	if err := tx.GetContext(ctx, &counts, q, score, niche); err != nil {
		return 0, fmt.Errorf("count niche: %w", err)
	}
	pct := percentile(counts.Lower, counts.Total)

	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE project_rankings SET percentile = ? WHERE project_id = ?`), pct, projectID); err != nil {
		return 0, fmt.Errorf("store percentile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return pct, nil
}

func percentile(lower, total int) float64 {
	if total <= 1 {
		return 100
	}
	return math.Round(float64(lower)/float64(total)*1000) / 10
}

func (s *Store) GetRanking(ctx context.Context, projectID string) (Ranking, error) {
	var row rankingRow
	q := s.db.Rebind(`SELECT project_id, score, percentile, niche, updated_at FROM project_rankings WHERE project_id = ?`)
	if err := s.db.GetContext(ctx, &row, q, projectID); err != nil {
		return Ranking{}, notFound(err)
	}
	return Ranking{
		ProjectID:  row.ProjectID,
		Score:      row.Score,
		Percentile: floatPtr(row.Percentile),
		Niche:      row.Niche,
		UpdatedAt:  parseTime(row.UpdatedAt),
	}, nil
}
