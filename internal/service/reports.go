package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/joelkehle/revenue-readiness/internal/render"
	"github.com/joelkehle/revenue-readiness/internal/revenue"
	"github.com/joelkehle/revenue-readiness/internal/store"
)

// ReportView is a stored report as one caller sees it.
type ReportView struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"project_id"`
	Version    int            `json:"version"`
	View       View           `json:"view"`
	Score      int            `json:"score"`
	Percentile *float64       `json:"percentile"`
	Niche      string         `json:"niche"`
	CreatedAt  time.Time      `json:"created_at"`
	Report     revenue.Report `json:"report"`
}

func (s *Service) viewOf(c Caller, rec store.ReportRecord) ReportView {
	v := ReportView{
		ID:         rec.ID,
		ProjectID:  rec.ProjectID,
		Version:    rec.Version,
		View:       s.ViewFor(c),
		Score:      rec.Score,
		Percentile: rec.Percentile,
		Niche:      rec.Niche,
		CreatedAt:  rec.CreatedAt,
		Report:     rec.Report,
	}
	if v.View == ViewPreview {
		v.Report = revenue.BuildPreview(rec.Report)
	}
	return v
}

func (s *Service) GetReport(ctx context.Context, c Caller, id string) (ReportView, error) {
	rec, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return ReportView{}, notFoundOr(err, "report")
	}
	return s.viewOf(c, rec), nil
}

type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

type Download struct {
	ContentType string
	Filename    string
	Body        []byte
}

// Download exports a report in format, redacted to the caller's view.
func (s *Service) Download(ctx context.Context, c Caller, id string, format Format) (Download, error) {
	if format == "" {
		format = FormatJSON
	}
	switch format {
	case FormatJSON, FormatMarkdown, FormatHTML, FormatPDF:
	default:
		return Download{}, newError(CodeValidation, fmt.Sprintf("unsupported format %q", format))
	}
	rec, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return Download{}, notFoundOr(err, "report")
	}
	v := s.viewOf(c, rec)
	name := fmt.Sprintf("revenue-report-%s-v%d.%s", rec.ProjectID, rec.Version, format)

	if format == FormatJSON {
		body, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return Download{}, newError(CodeInternal, err.Error())
		}
		return Download{ContentType: "application/json", Filename: name, Body: body}, nil
	}

	meta := revenue.ReportMeta{
		ReportID:    rec.ID,
		Version:     rec.Version,
		Percentile:  rec.Percentile,
		GeneratedAt: rec.CreatedAt,
	}
	if rec.Version > 1 {
		prev, err := s.repo.ReportByVersion(ctx, rec.ProjectID, rec.Version-1)
		switch {
		case err == nil:
			cmp := revenue.Compare(prev.Report, rec.Report)
			meta.Comparison = &cmp
		case !errors.Is(err, store.ErrNotFound):
			s.log.WithError(err).Warn("load previous version for export failed")
		}
	}
	md := revenue.BuildMarkdown(v.Report, meta)
	rm := render.Meta{
		Product:        rec.Report.Input.ProductName,
		ReportID:       rec.ID,
		Score:          rec.Score,
		Interpretation: string(rec.Report.Score.Interpretation),
		Preview:        v.View == ViewPreview,
	}

	switch format {
	case FormatMarkdown:
		return Download{ContentType: "text/markdown; charset=utf-8", Filename: name, Body: []byte(md)}, nil
	case FormatHTML:
		html, err := render.HTML(md, rm)
		if err != nil {
			return Download{}, newError(CodeInternal, err.Error())
		}
		return Download{ContentType: "text/html; charset=utf-8", Filename: name, Body: []byte(html)}, nil
	default:
		if s.pdf == nil {
			return Download{}, newError(CodeInternal, "pdf rendering unavailable")
		}
		pdf, err := s.pdf.Render(ctx, md, rm)
		if err != nil {
			s.log.WithError(err).WithField("report_id", rec.ID).Error("pdf render failed")
			return Download{}, newError(CodeInternal, "pdf render failed")
		}
		return Download{ContentType: "application/pdf", Filename: name, Body: pdf}, nil
	}
}
