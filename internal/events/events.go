// Package events publishes analysis lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const SubjectAnalysisCompleted = "revenue.analysis.completed"

type AnalysisCompleted struct {
	ReportID       string    `json:"report_id"`
	ProjectID      string    `json:"project_id"`
	Version        int       `json:"version"`
	TotalScore     int       `json:"total_score"`
	Interpretation string    `json:"interpretation"`
	RiskLevel      string    `json:"risk_level"`
	Niche          string    `json:"niche"`
	Percentile     *float64  `json:"percentile"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishAnalysisCompleted(ctx context.Context, e AnalysisCompleted) error
	Close()
}

// Noop is used when NATS_URL is unset.
type Noop struct{}

func (Noop) PublishAnalysisCompleted(context.Context, AnalysisCompleted) error { return nil }
func (Noop) Close()                                                           {}

type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

type NATSPublisher struct {
	nc  conn
	log *logrus.Entry
}

// Connect returns Noop for an empty url. Otherwise it dials with unlimited
// reconnects so a NATS restart does not drop the service's publisher.
func Connect(url string, log *logrus.Entry) (Publisher, error) {
	log = log.WithField("component", "events")
	if url == "" {
		log.Warn("NATS_URL not set, event publishing disabled")
		return Noop{}, nil
	}
	nc, err := nats.Connect(url,
		nats.Name("revenue-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.WithError(err).Warn("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.WithField("url", url).Info("nats publisher ready")
	return newNATSPublisher(nc, log), nil
}

func newNATSPublisher(nc conn, log *logrus.Entry) *NATSPublisher {
	return &NATSPublisher{nc: nc, log: log}
}

func (p *NATSPublisher) PublishAnalysisCompleted(ctx context.Context, e AnalysisCompleted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.nc.Publish(SubjectAnalysisCompleted, data); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectAnalysisCompleted, err)
	}
	p.log.WithFields(logrus.Fields{"report_id": e.ReportID, "score": e.TotalScore}).Debug("event published")
	return nil
}

func (p *NATSPublisher) Close() {
	p.nc.Close()
}
