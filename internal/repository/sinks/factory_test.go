package sinks

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

func TestFactory_OpenMemoryIsShared(t *testing.T) {
	f := NewFactory(&config.Config{}, zap.NewNop())

	a, err := f.Open(context.Background(), config.SinkMemory)
	require.NoError(t, err)
	b, err := f.Open(context.Background(), config.SinkMemory)
	require.NoError(t, err)

	assert.Same(t, f.Memory(), a)
	assert.Same(t, a, b)
}

func TestFactory_OpenAllSQLiteAndMemory(t *testing.T) {
	cfg := &config.Config{SQLite: config.SQLite{Path: filepath.Join(t.TempDir(), "gen.sqlite")}}
	f := NewFactory(cfg, zap.NewNop())

	stores, err := f.OpenAll(context.Background(), []string{config.SinkSQLite, config.SinkMemory})
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, config.SinkSQLite, stores[0].Name())
	assert.Equal(t, config.SinkMemory, stores[1].Name())
	assert.NoError(t, CloseAll(stores))
}

func TestFactory_OpenUnknown(t *testing.T) {
	f := NewFactory(&config.Config{}, zap.NewNop())

	_, err := f.Open(context.Background(), "duckdb")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestFactory_OpenUnreachableIsUnavailable(t *testing.T) {
	cfg := &config.Config{MySQL: config.MySQL{DSN: "not a dsn", MaxOpenConns: 1}}
	f := NewFactory(cfg, zap.NewNop())

	_, err := f.OpenAll(context.Background(), []string{config.SinkMemory, config.SinkMySQL})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSinkUnavailable)

	var sinkErr *domain.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.Equal(t, config.SinkMySQL, sinkErr.Sink)
	// the memory sink opened first was closed again
	assert.True(t, f.Memory().Closed())
}
