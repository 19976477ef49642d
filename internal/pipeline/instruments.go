package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type instruments struct {
	rows     metric.Int64Counter
	flushes  metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

func newInstruments(meter metric.Meter) (*instruments, error) {
	var (
		ins instruments
		err error
	)

	if ins.rows, err = meter.Int64Counter("generator.rows.written",
		metric.WithDescription("Rows written per sink and table")); err != nil {
		return nil, fmt.Errorf("failed to create rows counter: %w", err)
	}
	if ins.flushes, err = meter.Int64Counter("generator.flushes",
		metric.WithDescription("Buffer flushes fanned out to every sink")); err != nil {
		return nil, fmt.Errorf("failed to create flushes counter: %w", err)
	}
	if ins.failures, err = meter.Int64Counter("generator.sink.failures",
		metric.WithDescription("Failed sink operations")); err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}
	if ins.latency, err = meter.Float64Histogram("generator.flush.duration",
		metric.WithDescription("Time to write one flush to one sink"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create flush latency histogram: %w", err)
	}

	return &ins, nil
}

func (i *instruments) recordRows(ctx context.Context, sink, table string, n int) {
	i.rows.Add(ctx, int64(n), metric.WithAttributes(attribute.String("sink", sink), attribute.String("table", table)))
}

func (i *instruments) recordFlush(ctx context.Context, sink string, took time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("sink", sink))
	i.latency.Record(ctx, took.Seconds(), attrs)
	if err != nil {
		i.failures.Add(ctx, 1, attrs)
	}
}
