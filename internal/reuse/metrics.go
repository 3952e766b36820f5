package reuse

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/precreuse/internal/codec"
)

// Package-level tracer and meter for precision store operations.
var (
	tracer = otel.Tracer("precreuse.reuse")
	meter  = otel.Meter("precreuse.reuse")
)

// Metrics for precision store operations.
var (
	parseDuration     metric.Float64Histogram
	serializeDuration metric.Float64Histogram
	entriesDropped    metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		parseDuration, err = meter.Float64Histogram(
			"precision_parse_duration_seconds",
			metric.WithDescription("Duration of precision parsing"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		serializeDuration, err = meter.Float64Histogram(
			"precision_serialize_duration_seconds",
			metric.WithDescription("Duration of precision serialization"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		entriesDropped, err = meter.Int64Counter(
			"precision_entries_dropped_total",
			metric.WithDescription("Total number of precision entries skipped by a codec"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func codecAttrs(c codec.Codec) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("precision.format", string(c.Format())),
		attribute.String("precision.kind", string(c.Kind())),
	}
}

// recordParse records the duration and drops of one Load.
func recordParse(ctx context.Context, c codec.Codec, d time.Duration, dropped int) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(codecAttrs(c)...)
	parseDuration.Record(ctx, d.Seconds(), attrs)
	if dropped > 0 {
		entriesDropped.Add(ctx, int64(dropped), attrs, metric.WithAttributes(attribute.String("op", "parse")))
	}
}

// recordSerialize records the duration and drops of one WriteTo.
func recordSerialize(ctx context.Context, c codec.Codec, d time.Duration, dropped int) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(codecAttrs(c)...)
	serializeDuration.Record(ctx, d.Seconds(), attrs)
	if dropped > 0 {
		entriesDropped.Add(ctx, int64(dropped), attrs, metric.WithAttributes(attribute.String("op", "serialize")))
	}
}

// startSpan creates a span for a store operation.
func startSpan(ctx context.Context, operation string, c codec.Codec) (context.Context, trace.Span) {
	return tracer.Start(ctx, "PrecisionStore."+operation,
		trace.WithAttributes(codecAttrs(c)...),
	)
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
