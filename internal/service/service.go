// Package service orchestrates one analysis request end to end: quota,
// website enrichment, scoring, persistence, ranking, insights and events.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/joelkehle/revenue-readiness/internal/config"
	"github.com/joelkehle/revenue-readiness/internal/events"
	"github.com/joelkehle/revenue-readiness/internal/limiter"
	"github.com/joelkehle/revenue-readiness/internal/metrics"
	"github.com/joelkehle/revenue-readiness/internal/render"
	"github.com/joelkehle/revenue-readiness/internal/revenue"
	"github.com/joelkehle/revenue-readiness/internal/scraper"
	"github.com/joelkehle/revenue-readiness/internal/store"
)

// Repository is the persistence the service needs; *store.Store implements it.
type Repository interface {
	Ping(ctx context.Context) error
	CreateProject(ctx context.Context, in revenue.Input) (store.Project, error)
	GetProject(ctx context.Context, id string) (store.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (store.Project, error)
	SetProjectPublic(ctx context.Context, id string, public bool) error
	SaveReport(ctx context.Context, projectID string, r revenue.Report) (store.ReportRecord, error)
	UpdateReportPercentile(ctx context.Context, reportID string, percentile *float64, niche string) error
	GetReport(ctx context.Context, id string) (store.ReportRecord, error)
	LatestReport(ctx context.Context, projectID string) (store.ReportRecord, error)
	ReportByVersion(ctx context.Context, projectID string, version int) (store.ReportRecord, error)
	ListReports(ctx context.Context, projectID string) ([]store.ReportRecord, error)
	UpsertRanking(ctx context.Context, projectID string, score int, niche string) (float64, error)
	GetRanking(ctx context.Context, projectID string) (store.Ranking, error)
}

type InsightsAggregator interface {
	Aggregate(ctx context.Context, r revenue.Report, projectID string, previousScore *int) error
}

// Deps wires a Service. Fetcher, Insights and PDF may be nil: enrichment and
// aggregation are then skipped and PDF downloads fail with an internal error.
// A nil Limiter disables the preview quota.
type Deps struct {
	Engine   *revenue.Engine
	Repo     Repository
	Limiter  limiter.Limiter
	Fetcher  scraper.Fetcher
	Insights InsightsAggregator
	Events   events.Publisher
	Metrics  *metrics.Metrics
	PDF      render.PDFRenderer
	Flags    config.Flags
	Log      *logrus.Entry
}

type Service struct {
	engine   *revenue.Engine
	repo     Repository
	limiter  limiter.Limiter
	fetcher  scraper.Fetcher
	insights InsightsAggregator
	events   events.Publisher
	metrics  *metrics.Metrics
	pdf      render.PDFRenderer
	flags    config.Flags
	log      *logrus.Entry
	now      func() time.Time
}

func New(d Deps) *Service {
	if d.Engine == nil {
		d.Engine = revenue.NewEngine()
	}
	if d.Events == nil {
		d.Events = events.Noop{}
	}
	if d.Metrics == nil {
		reg := prometheus.NewRegistry()
		d.Metrics = metrics.New(reg, reg)
	}
	if d.Log == nil {
		d.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		engine:   d.Engine,
		repo:     d.Repo,
		limiter:  d.Limiter,
		fetcher:  d.Fetcher,
		insights: d.Insights,
		events:   d.Events,
		metrics:  d.Metrics,
		pdf:      d.PDF,
		flags:    d.Flags,
		log:      d.Log.WithField("component", "service"),
		now:      time.Now,
	}
}

func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

type AnalyzeRequest struct {
	Input     revenue.Input `json:"input"`
	ProjectID string        `json:"project_id,omitempty"`
}

type AnalyzeResult struct {
	Report     revenue.Report      `json:"report"`
	ReportID   string              `json:"report_id"`
	ProjectID  string              `json:"project_id"`
	Version    int                 `json:"version"`
	View       View                `json:"view"`
	Score      int                 `json:"score"`
	Percentile *float64            `json:"percentile"`
	Comparison *revenue.Comparison `json:"comparison,omitempty"`
}

// Analyze scores req.Input and stores the full report as the next version of
// the project. The caller receives the view their access allows.
func (s *Service) Analyze(ctx context.Context, c Caller, req AnalyzeRequest) (AnalyzeResult, error) {
	start := s.now()
	if err := req.Input.Validate(); err != nil {
		return AnalyzeResult{}, newError(CodeValidation, err.Error())
	}
	log := s.log.WithField("client_ip", c.ClientIP)

	// A consumed preview is handed back unless the report gets saved.
	saved := false
	if s.quotaApplies(c) {
		d, err := s.limiter.Consume(ctx, c.ClientIP)
		switch {
		case err != nil:
			log.WithError(err).Warn("preview quota check failed, allowing")
		case !d.Allowed:
			s.metrics.PreviewDenied.Inc()
			return AnalyzeResult{}, newError(CodeRateLimited, d.Reason)
		default:
			defer func() {
				if saved {
					return
				}
				if err := s.limiter.Release(context.WithoutCancel(ctx), c.ClientIP); err != nil {
					log.WithError(err).Warn("preview attempt not released")
				}
			}()
		}
	}

	var (
		project  store.Project
		previous *store.ReportRecord
		err      error
	)
	if req.ProjectID != "" {
		project, err = s.repo.GetProject(ctx, req.ProjectID)
		if err != nil {
			return AnalyzeResult{}, notFoundOr(err, "project")
		}
		prev, err := s.repo.LatestReport(ctx, project.ID)
		switch {
		case err == nil:
			previous = &prev
		case !errors.Is(err, store.ErrNotFound):
			log.WithError(err).Warn("load previous report failed")
		}
	}

	report, err := s.engine.Run(ctx, s.enrich(ctx, log, req.Input))
	if err != nil {
		log.WithError(err).Error("analysis failed")
		return AnalyzeResult{}, newError(CodeInternal, "analysis failed")
	}

	if req.ProjectID == "" {
		project, err = s.repo.CreateProject(ctx, req.Input)
		if err != nil {
			return AnalyzeResult{}, newError(CodeInternal, "create project: "+err.Error())
		}
	}
	rec, err := s.repo.SaveReport(ctx, project.ID, report)
	if err != nil {
		return AnalyzeResult{}, newError(CodeInternal, "save report: "+err.Error())
	}
	saved = true
	log = log.WithFields(logrus.Fields{"project_id": project.ID, "report_id": rec.ID, "version": rec.Version})

	niche := project.Niche
	if niche == "" {
		niche = store.DefaultNiche
	}
	var percentile *float64
	if pct, err := s.repo.UpsertRanking(ctx, project.ID, report.Score.TotalScore, niche); err != nil {
		log.WithError(err).Warn("ranking update failed")
	} else {
		percentile = &pct
		if err := s.repo.UpdateReportPercentile(ctx, rec.ID, percentile, niche); err != nil {
			log.WithError(err).Warn("report percentile update failed")
		}
	}

	var prevScore *int
	if previous != nil {
		v := previous.Score
		prevScore = &v
	}
	if s.insights != nil {
		if err := s.insights.Aggregate(ctx, report, project.ID, prevScore); err != nil {
			log.WithError(err).Warn("insight aggregation failed")
		}
	}

	if err := s.events.PublishAnalysisCompleted(ctx, events.AnalysisCompleted{
		ReportID:       rec.ID,
		ProjectID:      project.ID,
		Version:        rec.Version,
		TotalScore:     report.Score.TotalScore,
		Interpretation: string(report.Score.Interpretation),
		RiskLevel:      string(report.Score.Advanced.RiskLevel),
		Niche:          niche,
		Percentile:     percentile,
		OccurredAt:     s.now().UTC(),
	}); err != nil {
		log.WithError(err).Warn("analysis event not published")
	}

	view := s.ViewFor(c)
	s.metrics.AnalysesTotal.WithLabelValues(string(view)).Inc()
	s.metrics.TotalScore.Observe(float64(report.Score.TotalScore))
	s.metrics.AnalyzeSeconds.Observe(s.now().Sub(start).Seconds())
	log.WithFields(logrus.Fields{"score": report.Score.TotalScore, "view": view}).Info("analysis completed")

	out := AnalyzeResult{
		Report:     report,
		ReportID:   rec.ID,
		ProjectID:  project.ID,
		Version:    rec.Version,
		View:       view,
		Score:      report.Score.TotalScore,
		Percentile: percentile,
	}
	if previous != nil {
		cmp := revenue.Compare(previous.Report, report)
		out.Comparison = &cmp
	}
	if view == ViewPreview {
		out.Report = revenue.BuildPreview(report)
	}
	return out, nil
}

// enrich merges the live website copy into the input. Any scrape failure
// leaves the input unchanged.
func (s *Service) enrich(ctx context.Context, log *logrus.Entry, in revenue.Input) revenue.Input {
	if s.fetcher == nil || in.WebsiteURL == "" {
		return in
	}
	scraped, err := s.fetcher.Fetch(ctx, in.WebsiteURL)
	if err != nil {
		s.metrics.ScrapeTotal.WithLabelValues("failure").Inc()
		log.WithError(err).WithField("url", in.WebsiteURL).Info("website enrichment skipped")
		return in
	}
	s.metrics.ScrapeTotal.WithLabelValues("success").Inc()
	return scraper.Enrich(in, scraped)
}
