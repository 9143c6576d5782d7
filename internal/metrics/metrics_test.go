package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, reg)

	m.AnalysesTotal.WithLabelValues("preview").Inc()
	m.AnalysesTotal.WithLabelValues("preview").Inc()
	m.ScrapeTotal.WithLabelValues("success").Inc()
	m.PreviewDenied.Inc()
	m.TotalScore.Observe(58)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("preview")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PreviewDenied))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	for _, name := range []string{"revenue_analyses_total", "revenue_total_score_bucket", "revenue_scrape_total", "revenue_preview_denied_total"} {
		assert.Contains(t, string(body), name)
	}
}
