// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	AnalysesTotal  *prometheus.CounterVec
	TotalScore     prometheus.Histogram
	ScrapeTotal    *prometheus.CounterVec
	PreviewDenied  prometheus.Counter
	AnalyzeSeconds prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Tests pass a fresh registry; the API
// passes prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "revenue_analyses_total",
			Help: "Completed analyses by the view returned to the caller",
		}, []string{"view"}),
		TotalScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "revenue_total_score",
			Help:    "Distribution of revenue readiness scores",
			Buckets: []float64{20, 40, 60, 80, 90, 100},
		}),
		ScrapeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "revenue_scrape_total",
			Help: "Website enrichment attempts by outcome",
		}, []string{"outcome"}),
		PreviewDenied: f.NewCounter(prometheus.CounterOpts{
			Name: "revenue_preview_denied_total",
			Help: "Anonymous analyses rejected by the free preview quota",
		}),
		AnalyzeSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "revenue_analyze_duration_seconds",
			Help:    "End-to-end analyze request latency",
			Buckets: prometheus.DefBuckets,
		}),
		gatherer: gatherer,
	}
}

// NewDefault registers on the process-wide registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
