package service

import (
	"context"
	"time"

	"github.com/joelkehle/revenue-readiness/internal/render"
	"github.com/joelkehle/revenue-readiness/internal/revenue"
)

// CompareVersions diffs two versions of a project. Zero values default to
// the latest version and the one before it.
func (s *Service) CompareVersions(ctx context.Context, projectID string, from, to int) (revenue.Comparison, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return revenue.Comparison{}, notFoundOr(err, "project")
	}
	if to == 0 {
		latest, err := s.repo.LatestReport(ctx, projectID)
		if err != nil {
			return revenue.Comparison{}, notFoundOr(err, "report")
		}
		to = latest.Version
	}
	if from == 0 {
		from = to - 1
	}
	if from < 1 || to < 1 {
		return revenue.Comparison{}, newError(CodeValidation, "comparison needs two versions")
	}
	prev, err := s.repo.ReportByVersion(ctx, projectID, from)
	if err != nil {
		return revenue.Comparison{}, notFoundOr(err, "report version")
	}
	cur, err := s.repo.ReportByVersion(ctx, projectID, to)
	if err != nil {
		return revenue.Comparison{}, notFoundOr(err, "report version")
	}
	return revenue.Compare(prev.Report, cur.Report), nil
}

type HistoryPoint struct {
	Version   int       `json:"version"`
	ReportID  string    `json:"report_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type History struct {
	ProjectID  string              `json:"project_id"`
	Name       string              `json:"name"`
	Slug       string              `json:"slug"`
	Public     bool                `json:"public"`
	Points     []HistoryPoint      `json:"points"`
	Comparison *revenue.Comparison `json:"comparison,omitempty"`
}

// History returns the score trend of a project and, with two or more
// versions, the comparison of the last two.
func (s *Service) History(ctx context.Context, projectID string) (History, error) {
	p, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return History{}, notFoundOr(err, "project")
	}
	recs, err := s.repo.ListReports(ctx, projectID)
	if err != nil {
		return History{}, newError(CodeInternal, err.Error())
	}
	h := History{ProjectID: p.ID, Name: p.Name, Slug: p.Slug, Public: p.IsPublic, Points: make([]HistoryPoint, 0, len(recs))}
	for _, r := range recs {
		h.Points = append(h.Points, HistoryPoint{Version: r.Version, ReportID: r.ID, Score: r.Score, CreatedAt: r.CreatedAt})
	}
	if n := len(recs); n >= 2 {
		cmp := revenue.Compare(recs[n-2].Report, recs[n-1].Report)
		h.Comparison = &cmp
	}
	return h, nil
}

func (s *Service) SetVisibility(ctx context.Context, c Caller, projectID string, public bool) error {
	if !s.canManage(c) {
		return newError(CodeUnauthorized, "a valid access token is required")
	}
	if err := s.repo.SetProjectPublic(ctx, projectID, public); err != nil {
		return notFoundOr(err, "project")
	}
	return nil
}

// Badge renders the SVG badge of a public project. Private and unknown
// projects are both reported as not found.
func (s *Service) Badge(ctx context.Context, slug string) (string, error) {
	p, err := s.repo.GetProjectBySlug(ctx, slug)
	if err != nil {
		return "", notFoundOr(err, "project")
	}
	if !p.IsPublic {
		return "", newError(CodeNotFound, "project not found")
	}
	score := 0
	var pct *float64
	if r, err := s.repo.GetRanking(ctx, p.ID); err == nil {
		score, pct = r.Score, r.Percentile
	}
	return render.Badge(score, pct), nil
}
