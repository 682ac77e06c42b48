package alerting

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/metrics"
)

// LogSink writes alert events to the structured log. It is the default
// sink; operators feed the log stream into their paging pipeline.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a new LogSink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs the event at a level matching its severity.
func (s *LogSink) Emit(_ context.Context, event *domain.AlertEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	var evt *zerolog.Event
	switch event.Severity {
	case domain.SeverityCritical:
		evt = s.logger.Error()
	case domain.SeverityWarning:
		evt = s.logger.Warn()
	default:
		evt = s.logger.Info()
	}

	evt.
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("run_id", event.RunID).
		Str("severity", event.Severity).
		RawJSON("payload", payload).
		Msg("alert event")

	return nil
}

// MetricsSink counts emitted alert events by type and severity.
type MetricsSink struct {
	metrics *metrics.Metrics
}

// NewMetricsSink creates a new MetricsSink.
func NewMetricsSink(m *metrics.Metrics) *MetricsSink {
	return &MetricsSink{metrics: m}
}

// Emit increments the alert counter for the event.
func (s *MetricsSink) Emit(_ context.Context, event *domain.AlertEvent) error {
	s.metrics.AlertsEmitted.WithLabelValues(event.Type, event.Severity).Inc()
	return nil
}

// FanOutSink delivers each event to every configured sink. A failing
// sink does not block the others; the first error is returned after
// all sinks have been tried.
type FanOutSink struct {
	sinks []Sink
}

// Sink is the destination side of alert emission.
type Sink interface {
	Emit(ctx context.Context, event *domain.AlertEvent) error
}

// NewFanOutSink creates a new FanOutSink.
func NewFanOutSink(sinks ...Sink) *FanOutSink {
	return &FanOutSink{sinks: sinks}
}

// Emit delivers the event to all sinks.
func (s *FanOutSink) Emit(ctx context.Context, event *domain.AlertEvent) error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Emit(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
