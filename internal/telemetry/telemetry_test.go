package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
)

func TestNew_MeterUsableAndShutdown(t *testing.T) {
	p, err := New(config.Telemetry{}, "generator-test")
	require.NoError(t, err)

	counter, err := p.Meter().Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_StdoutExporter(t *testing.T) {
	p, err := New(config.Telemetry{Stdout: true}, "generator-test")
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))
}
