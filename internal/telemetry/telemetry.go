// Package telemetry wires the OpenTelemetry meter provider.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
)

const (
	instrumentationName = "github.com/BarkinBalci/event-dataset-generator"
	exportInterval      = 30 * time.Second
)

// Provider owns the meter provider for the process lifetime
type Provider struct {
	mp *sdkmetric.MeterProvider
}

// New builds a meter provider and installs it globally. Without the stdout exporter
// instruments are still recorded but never exported.
func New(cfg config.Telemetry, service string) (*Provider, error) {
	res := resource.NewSchemaless(attribute.String("service.name", service))
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if cfg.Stdout {
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(exportInterval))))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	return &Provider{mp: mp}, nil
}

// Meter returns the meter used by the generator's instruments
func (p *Provider) Meter() metric.Meter {
	return p.mp.Meter(instrumentationName)
}

// Shutdown flushes pending exports
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down meter provider: %w", err)
	}
	return nil
}
