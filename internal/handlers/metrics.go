package handlers

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/starinfo/extension/internal/handlers"

type metrics struct {
	tracked metric.Int64Gauge
	miners  metric.Int64Histogram
	removed metric.Int64Counter
}

// newMetrics uses the global OTel meter (no-op if not configured).
func newMetrics() (*metrics, error) {
	m := otel.Meter(instrumentationName)
	out := &metrics{}

	var err error
	out.tracked, err = m.Int64Gauge(
		"starinfo.stars.tracked",
		metric.WithDescription("Number of stars currently tracked"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tracked gauge: %w", err)
	}

	out.miners, err = m.Int64Histogram(
		"starinfo.miners.counted",
		metric.WithDescription("Miners counted at the promoted star per tick"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating miners histogram: %w", err)
	}

	out.removed, err = m.Int64Counter(
		"starinfo.stars.removed",
		metric.WithDescription("Stars dropped from the registry"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating removed counter: %w", err)
	}

	return out, nil
}

func (m *metrics) setTracked(n int) {
	m.tracked.Record(context.Background(), int64(n))
}

func (m *metrics) countedMiners(n int) {
	m.miners.Record(context.Background(), int64(n))
}

func (m *metrics) starRemoved(reason string) {
	m.removed.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}
