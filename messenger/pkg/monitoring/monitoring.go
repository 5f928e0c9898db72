package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/beholder"
	"github.com/smartcontractkit/chainlink-common/pkg/metrics"
)

// MessengerBeholderMonitoring provides beholder-based monitoring for the messenger.
type MessengerBeholderMonitoring struct {
	metrics messenger.MetricLabeler
}

// InitMonitoring initializes the beholder monitoring system for the messenger.
func InitMonitoring(config beholder.Config) (messenger.Monitoring, error) {
	// Histogram buckets must be known when the beholder client is created.
	config.MetricViews = MetricViews()

	client, err := beholder.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create beholder client: %w", err)
	}

	beholder.SetClient(client)
	beholder.SetGlobalOtelProviders()

	messengerMetrics, err := InitMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messenger metrics: %w", err)
	}

	return &MessengerBeholderMonitoring{
		metrics: NewMessengerMetricLabeler(metrics.NewLabeler(), messengerMetrics),
	}, nil
}

func (v *MessengerBeholderMonitoring) Metrics() messenger.MetricLabeler {
	return v.metrics
}

var _ messenger.Monitoring = (*NoopMessengerMonitoring)(nil)

// NoopMessengerMonitoring provides a no-op implementation of messenger.Monitoring.
type NoopMessengerMonitoring struct {
	noop messenger.MetricLabeler
}

func NewNoopMessengerMonitoring() messenger.Monitoring {
	return &NoopMessengerMonitoring{
		noop: NewNoopMessengerMetricLabeler(),
	}
}

func (n *NoopMessengerMonitoring) Metrics() messenger.MetricLabeler {
	return n.noop
}

var _ messenger.MetricLabeler = (*NoopMessengerMetricLabeler)(nil)

// NoopMessengerMetricLabeler provides a no-op implementation of messenger.MetricLabeler.
type NoopMessengerMetricLabeler struct{}

func NewNoopMessengerMetricLabeler() messenger.MetricLabeler {
	return &NoopMessengerMetricLabeler{}
}

func (n *NoopMessengerMetricLabeler) With(keyValues ...string) messenger.MetricLabeler {
	return n
}

func (n *NoopMessengerMetricLabeler) IncrementStatusResolutions(ctx context.Context, status protocol.MessageStatus) {
}

func (n *NoopMessengerMetricLabeler) IncrementReorgsObserved(ctx context.Context) {}

func (n *NoopMessengerMetricLabeler) IncrementSubmissions(ctx context.Context, operation string) {}

func (n *NoopMessengerMetricLabeler) IncrementSubmissionReverts(ctx context.Context, operation string) {
}

func (n *NoopMessengerMetricLabeler) RecordWaitDuration(ctx context.Context, target protocol.MessageStatus, duration time.Duration) {
}
