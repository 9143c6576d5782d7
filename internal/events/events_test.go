package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
	closed  bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	return f.err
}

func (f *fakeConn) Close() { f.closed = true }

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestConnectWithoutURLIsNoop(t *testing.T) {
	p, err := Connect("", quietLogger())
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.PublishAnalysisCompleted(context.Background(), AnalysisCompleted{}))
	p.Close()
}

func TestPublishAnalysisCompleted(t *testing.T) {
	fc := &fakeConn{}
	p := newNATSPublisher(fc, quietLogger())
	pct := 75.0
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, p.PublishAnalysisCompleted(context.Background(), AnalysisCompleted{
		ReportID: "r1", ProjectID: "p1", Version: 2, TotalScore: 58,
		Interpretation: "Building not selling", RiskLevel: "Medium", Niche: "general",
		Percentile: &pct, OccurredAt: at,
	}))
	assert.Equal(t, SubjectAnalysisCompleted, fc.subject)

	var got map[string]any
	require.NoError(t, json.Unmarshal(fc.data, &got))
	assert.Equal(t, "r1", got["report_id"])
	assert.Equal(t, 58.0, got["total_score"])
	assert.Equal(t, 75.0, got["percentile"])
	assert.Equal(t, "2026-03-01T00:00:00Z", got["occurred_at"])

	p.Close()
	assert.True(t, fc.closed)
}

func TestPublishErrors(t *testing.T) {
	p := newNATSPublisher(&fakeConn{err: errors.New("down")}, quietLogger())
	assert.ErrorContains(t, p.PublishAnalysisCompleted(context.Background(), AnalysisCompleted{}), "down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishAnalysisCompleted(ctx, AnalysisCompleted{}), context.Canceled)
}
