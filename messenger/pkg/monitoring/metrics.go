package monitoring

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/smartcontractkit/chainlink-common/pkg/beholder"
	"github.com/smartcontractkit/chainlink-common/pkg/metrics"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const waitDurationMetric = "messenger_wait_for_status_duration_seconds"

// MessengerMetrics provides all metrics for the messenger.
type MessengerMetrics struct {
	waitDuration metric.Float64Histogram

	statusResolutions metric.Int64Counter
	reorgsObserved    metric.Int64Counter
	submissions       metric.Int64Counter
	submissionReverts metric.Int64Counter
}

// InitMetrics initializes all messenger metrics.
func InitMetrics() (*MessengerMetrics, error) {
	mm := &MessengerMetrics{}
	var err error

	mm.waitDuration, err = beholder.GetMeter().Float64Histogram(
		waitDurationMetric,
		metric.WithDescription("Time spent waiting for a message to reach a target status"),
		metric.WithUnit("seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register wait duration histogram: %w", err)
	}

	mm.statusResolutions, err = beholder.GetMeter().Int64Counter(
		"messenger_status_resolutions_total",
		metric.WithDescription("Total number of message status resolutions by resulting status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register status resolutions counter: %w", err)
	}
	mm.reorgsObserved, err = beholder.GetMeter().Int64Counter(
		"messenger_reorgs_observed_total",
		metric.WithDescription("Total number of including block changes seen while awaiting stable inclusion"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register reorgs observed counter: %w", err)
	}
	mm.submissions, err = beholder.GetMeter().Int64Counter(
		"messenger_submissions_total",
		metric.WithDescription("Total number of prove and finalize transactions submitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register submissions counter: %w", err)
	}
	mm.submissionReverts, err = beholder.GetMeter().Int64Counter(
		"messenger_submission_reverts_total",
		metric.WithDescription("Total number of prove and finalize transactions mined with a failed status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register submission reverts counter: %w", err)
	}

	return mm, nil
}

// MetricViews defines histogram bucket boundaries for messenger metrics.
func MetricViews() []sdkmetric.View {
	return []sdkmetric.View{
		// Waits span seconds for inclusion up to days for the challenge period.
		sdkmetric.NewView(
			sdkmetric.Instrument{Name: waitDurationMetric},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600, 14400, 43200, 86400, 259200, 604800},
			}},
		),
	}
}

var _ messenger.MetricLabeler = &MessengerMetricLabeler{}

// MessengerMetricLabeler wraps MessengerMetrics with label support.
type MessengerMetricLabeler struct {
	metrics.Labeler
	mm *MessengerMetrics
}

// NewMessengerMetricLabeler creates a new messenger metric labeler.
func NewMessengerMetricLabeler(labeler metrics.Labeler, mm *MessengerMetrics) messenger.MetricLabeler {
	return &MessengerMetricLabeler{
		Labeler: labeler,
		mm:      mm,
	}
}

func (v *MessengerMetricLabeler) With(keyValues ...string) messenger.MetricLabeler {
	return &MessengerMetricLabeler{v.Labeler.With(keyValues...), v.mm}
}

func (v *MessengerMetricLabeler) IncrementStatusResolutions(ctx context.Context, status protocol.MessageStatus) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.mm.statusResolutions.Add(ctx, 1, metric.WithAttributes([]attribute.KeyValue{
		attribute.String("status", status.String()),
	}...), metric.WithAttributes(otelLabels...))
}

func (v *MessengerMetricLabeler) IncrementReorgsObserved(ctx context.Context) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.mm.reorgsObserved.Add(ctx, 1, metric.WithAttributes(otelLabels...))
}

func (v *MessengerMetricLabeler) IncrementSubmissions(ctx context.Context, operation string) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.mm.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)), metric.WithAttributes(otelLabels...))
}

func (v *MessengerMetricLabeler) IncrementSubmissionReverts(ctx context.Context, operation string) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.mm.submissionReverts.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)), metric.WithAttributes(otelLabels...))
}

func (v *MessengerMetricLabeler) RecordWaitDuration(ctx context.Context, target protocol.MessageStatus, duration time.Duration) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.mm.waitDuration.Record(ctx, duration.Seconds(), metric.WithAttributes([]attribute.KeyValue{
		attribute.String("target", target.String()),
	}...), metric.WithAttributes(otelLabels...))
}
