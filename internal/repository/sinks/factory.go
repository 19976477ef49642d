// Package sinks opens storage back ends by name.
package sinks

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository/clickhouse"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository/memory"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository/sqlstore"
)

// Factory opens sinks from the process configuration. The memory sink is shared
// across runs so its ledger behaves like a persistent one for the process lifetime.
type Factory struct {
	cfg    *config.Config
	memory *memory.Sink
	log    *zap.Logger
}

func NewFactory(cfg *config.Config, log *zap.Logger) *Factory {
	return &Factory{cfg: cfg, memory: memory.NewSink(), log: log}
}

// Memory returns the shared in-process sink
func (f *Factory) Memory() *memory.Sink {
	return f.memory
}

// Open connects to the sink called name. Connection failures unwrap to domain.ErrSinkUnavailable.
func (f *Factory) Open(ctx context.Context, name string) (repository.Store, error) {
	var (
		store repository.Store
		err   error
	)

	switch name {
	case config.SinkClickHouse:
		var client *clickhouse.Client
		if client, err = clickhouse.NewClient(ctx, f.cfg.ClickHouse, f.log); err == nil {
			store = clickhouse.NewSink(client, f.log)
		}
	case config.SinkPostgres:
		store, err = sqlstore.OpenPostgres(ctx, f.cfg.Postgres, f.log)
	case config.SinkMySQL:
		store, err = sqlstore.OpenMySQL(ctx, f.cfg.MySQL, f.log)
	case config.SinkSQLite:
		store, err = sqlstore.OpenSQLite(ctx, f.cfg.SQLite, f.log)
	case config.SinkMemory:
		store = f.memory
	default:
		return nil, &domain.ConfigError{Problems: []string{fmt.Sprintf("sinks: unknown sink %q", name)}}
	}

	if err != nil {
		f.log.Error("Failed to open sink", zap.String("sink", name), zap.Error(err))
		return nil, domain.NewSinkError(name, "open", domain.ErrSinkUnavailable, err)
	}
	return store, nil
}

// OpenAll opens every named sink, closing the ones already opened if any fails
func (f *Factory) OpenAll(ctx context.Context, names []string) ([]repository.Store, error) {
	stores := make([]repository.Store, 0, len(names))
	for _, name := range names {
		store, err := f.Open(ctx, name)
		if err != nil {
			return nil, errors.Join(err, CloseAll(stores))
		}
		stores = append(stores, store)
	}
	return stores, nil
}

// CloseAll closes every store and joins their errors
func CloseAll(stores []repository.Store) error {
	var errs []error
	for _, s := range stores {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
