package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
)

// ReportRecord is one stored analysis: the full (never redacted) report plus
// its version within the project.
type ReportRecord struct {
	ID                string             `json:"id"`
	ProjectID         string             `json:"project_id"`
	Version           int                `json:"version"`
	Report            revenue.Report     `json:"report"`
	Score             int                `json:"score"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	Percentile        *float64           `json:"percentile"`
	Niche             string             `json:"niche"`
	CreatedAt         time.Time          `json:"created_at"`
}

type reportRow struct {
	ID                string          `db:"id"`
	ProjectID         string          `db:"project_id"`
	Version           int             `db:"version"`
	ReportJSON        string          `db:"report_json"`
	Score             int             `db:"score"`
	CategoryBreakdown string          `db:"category_breakdown"`
	Percentile        sql.NullFloat64 `db:"percentile"`
	Niche             string          `db:"niche"`
	CreatedAt         string          `db:"created_at"`
}

const reportColumns = `id, project_id, version, report_json, score, category_breakdown, percentile, niche, created_at`

func (r reportRow) record() (ReportRecord, error) {
	rec := ReportRecord{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		Version:    r.Version,
		Score:      r.Score,
		Percentile: floatPtr(r.Percentile),
		Niche:      r.Niche,
		CreatedAt:  parseTime(r.CreatedAt),
	}
	if err := json.Unmarshal([]byte(r.ReportJSON), &rec.Report); err != nil {
		return ReportRecord{}, fmt.Errorf("decode report %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.CategoryBreakdown), &rec.CategoryBreakdown); err != nil {
		return ReportRecord{}, fmt.Errorf("decode breakdown %s: %w", r.ID, err)
	}
	return rec, nil
}

// SaveReport stores report as the next version of the project.
func (s *Store) SaveReport(ctx context.Context, projectID string, report revenue.Report) (ReportRecord, error) {
	blob, err := json.Marshal(report)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("encode report: %w", err)
	}
	breakdown := make(map[string]float64, len(report.Score.CategoryScores))
	for _, c := range report.Score.CategoryScores {
		breakdown[c.Category] = c.WeightedScore
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("encode breakdown: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var latest int
	if err := tx.GetContext(ctx, &latest, tx.Rebind(`SELECT COALESCE(MAX(version), 0) FROM analysis_reports WHERE project_id = ?`), projectID); err != nil {
		return ReportRecord{}, fmt.Errorf("next version: %w", err)
	}
	row := reportRow{
		ID:                uuid.NewString(),
		ProjectID:         projectID,
		Version:           latest + 1,
		ReportJSON:        string(blob),
		Score:             report.Score.TotalScore,
		CategoryBreakdown: string(breakdownJSON),
		CreatedAt:         s.timestamp(),
	}
	q := tx.Rebind(`INSERT INTO analysis_reports (` + reportColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, q, row.ID, row.ProjectID, row.Version, row.ReportJSON, row.Score,
		row.CategoryBreakdown, row.Percentile, row.Niche, row.CreatedAt); err != nil {
		return ReportRecord{}, fmt.Errorf("insert report: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ReportRecord{}, fmt.Errorf("commit: %w", err)
	}
	return row.record()
}

func (s *Store) UpdateReportPercentile(ctx context.Context, reportID string, percentile *float64, niche string) error {
	q := s.db.Rebind(`UPDATE analysis_reports SET percentile = ?, niche = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, nullFloat(percentile), niche, reportID)
	if err != nil {
		return fmt.Errorf("update percentile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, id string) (ReportRecord, error) {
	return s.getReport(ctx, `WHERE id = ?`, id)
}

// LatestReport returns the highest version of the project.
func (s *Store) LatestReport(ctx context.Context, projectID string) (ReportRecord, error) {
	return s.getReport(ctx, `WHERE project_id = ? ORDER BY version DESC LIMIT 1`, projectID)
}

// PreviousReport returns the second-highest version of the project.
func (s *Store) PreviousReport(ctx context.Context, projectID string) (ReportRecord, error) {
	return s.getReport(ctx, `WHERE project_id = ? ORDER BY version DESC LIMIT 1 OFFSET 1`, projectID)
}

func (s *Store) ReportByVersion(ctx context.Context, projectID string, version int) (ReportRecord, error) {
	return s.getReport(ctx, `WHERE project_id = ? AND version = ?`, projectID, version)
}

func (s *Store) getReport(ctx context.Context, where string, args ...any) (ReportRecord, error) {
	var row reportRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT `+reportColumns+` FROM analysis_reports `+where), args...); err != nil {
		return ReportRecord{}, notFound(err)
	}
	return row.record()
}

// ListReports returns every version of the project, oldest first.
func (s *Store) ListReports(ctx context.Context, projectID string) ([]ReportRecord, error) {
	var rows []reportRow
	q := s.db.Rebind(`SELECT ` + reportColumns + ` FROM analysis_reports WHERE project_id = ? ORDER BY version ASC`)
	if err := s.db.SelectContext(ctx, &rows, q, projectID); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out := make([]ReportRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
