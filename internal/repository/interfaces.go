package repository

import (
	"context"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

// Sink is the storage capability every back end offers to the persistence pipeline.
// Inserts land in staging tables; Promote makes them the live dataset.
type Sink interface {
	// Name identifies the sink in logs, errors and lineage
	Name() string

	// InitSchema creates the live tables and the version ledger if absent, and fresh staging tables
	InitSchema(ctx context.Context) error

	// ClearTables removes every row from the staging tables
	ClearTables(ctx context.Context) error

	InsertUsers(ctx context.Context, users []domain.User) error
	InsertSessions(ctx context.Context, sessions []domain.Session) error
	InsertEvents(ctx context.Context, events []domain.Event) error
	InsertPurchases(ctx context.Context, purchases []domain.Purchase) error
	InsertDailyMetrics(ctx context.Context, metrics []domain.DailyMetric) error

	// Promote replaces the live tables with the staging tables
	Promote(ctx context.Context) error

	// Ping checks if the connection is alive
	Ping(ctx context.Context) error

	// Close releases the connection
	Close() error
}

// VersionLedger is the append-only dataset_versions table of a sink
type VersionLedger interface {
	// EnsureLedger creates the ledger table if absent and touches nothing else
	EnsureLedger(ctx context.Context) error

	// MaxVersionID returns the highest recorded version id, 0 for an empty ledger
	MaxVersionID(ctx context.Context) (int64, error)

	AppendVersion(ctx context.Context, v domain.DatasetVersion) error

	// ListVersions returns up to limit records newest first; limit <= 0 returns all
	ListVersions(ctx context.Context, limit int) ([]domain.DatasetVersion, error)
}

// Store is a sink that also keeps its own version ledger
type Store interface {
	Sink
	VersionLedger
}
