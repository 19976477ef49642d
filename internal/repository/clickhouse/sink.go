package clickhouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
)

// Sink writes the dataset into MergeTree tables through the native batch API
type Sink struct {
	conn driver.Conn
	// closer releases conn; nil when the caller owns the connection
	closer func() error
	log    *zap.Logger
}

// NewSink wraps an open client
func NewSink(client *Client, log *zap.Logger) *Sink {
	return &Sink{conn: client.Conn(), closer: client.Close, log: log}
}

func (s *Sink) Name() string { return config.SinkClickHouse }

func columnType(t repository.ColumnType) string {
	switch t {
	case repository.Int64:
		return "Int64"
	case repository.Float64:
		return "Float64"
	case repository.NullableFloat64:
		return "Nullable(Float64)"
	case repository.Bool:
		return "Bool"
	case repository.Date:
		return "Date"
	case repository.Timestamp:
		return "DateTime"
	default:
		return "String"
	}
}

func createTableQuery(t repository.Table, name string) string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = fmt.Sprintf("%s %s", c.Name, columnType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s) ENGINE = MergeTree ORDER BY %s",
		name, strings.Join(cols, ", "), t.Key)
}

// InitSchema creates live tables and the ledger if absent, and recreates empty staging tables
func (s *Sink) InitSchema(ctx context.Context) error {
	for _, t := range repository.AllTables() {
		if err := s.conn.Exec(ctx, createTableQuery(t, t.Name)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Name, err)
		}
	}

	for _, t := range repository.DatasetTables {
		if err := s.conn.Exec(ctx, "DROP TABLE IF EXISTS "+t.Staging()); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", t.Staging(), err)
		}
		if err := s.conn.Exec(ctx, createTableQuery(t, t.Staging())); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Staging(), err)
		}
	}

	s.log.Info("ClickHouse schema initialized")
	return nil
}

func (s *Sink) ClearTables(ctx context.Context) error {
	for _, t := range repository.DatasetTables {
		if err := s.conn.Exec(ctx, "TRUNCATE TABLE IF EXISTS "+t.Staging()); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", t.Staging(), err)
		}
	}
	return nil
}

func (s *Sink) insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("failed to prepare batch for %s: %w", table, err)
	}
	defer func() { _ = batch.Abort() }()

	for _, row := range rows {
		if err := batch.Append(row...); err != nil {
			return fmt.Errorf("failed to append row to %s batch: %w", table, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send %s batch: %w", table, err)
	}
	return nil
}

func (s *Sink) InsertUsers(ctx context.Context, users []domain.User) error {
	return s.insert(ctx, repository.UsersTable.Staging(), repository.Rows(users, repository.UserRow))
}

func (s *Sink) InsertSessions(ctx context.Context, sessions []domain.Session) error {
	return s.insert(ctx, repository.SessionsTable.Staging(), repository.Rows(sessions, repository.SessionRow))
}

func (s *Sink) InsertEvents(ctx context.Context, events []domain.Event) error {
	return s.insert(ctx, repository.EventsTable.Staging(), repository.Rows(events, repository.EventRow))
}

func (s *Sink) InsertPurchases(ctx context.Context, purchases []domain.Purchase) error {
	return s.insert(ctx, repository.PurchasesTable.Staging(), repository.Rows(purchases, repository.PurchaseRow))
}

func (s *Sink) InsertDailyMetrics(ctx context.Context, metrics []domain.DailyMetric) error {
	return s.insert(ctx, repository.DailyMetricsTable.Staging(), repository.Rows(metrics, repository.DailyMetricRow))
}

// Promote swaps every staging table with its live table. Each EXCHANGE is atomic on its own;
// the previous generation ends up in staging and is truncated.
func (s *Sink) Promote(ctx context.Context) error {
	for _, t := range repository.DatasetTables {
		if err := s.conn.Exec(ctx, fmt.Sprintf("EXCHANGE TABLES %s AND %s", t.Staging(), t.Name)); err != nil {
			return fmt.Errorf("failed to exchange %s: %w", t.Name, err)
		}
	}
	if err := s.ClearTables(ctx); err != nil {
		s.log.Warn("Failed to truncate previous generation", zap.Error(err))
	}

	s.log.Info("ClickHouse staging tables promoted")
	return nil
}

func (s *Sink) EnsureLedger(ctx context.Context) error {
	if err := s.conn.Exec(ctx, createTableQuery(repository.VersionsTable, repository.VersionsTable.Name)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", repository.VersionsTable.Name, err)
	}
	return nil
}

func (s *Sink) MaxVersionID(ctx context.Context) (int64, error) {
	var id int64
	row := s.conn.QueryRow(ctx, "SELECT max(version_id) FROM "+repository.VersionsTable.Name)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to query max version id: %w", err)
	}
	return id, nil
}

func (s *Sink) AppendVersion(ctx context.Context, v domain.DatasetVersion) error {
	return s.insert(ctx, repository.VersionsTable.Name, [][]any{repository.VersionRow(v)})
}

func (s *Sink) ListVersions(ctx context.Context, limit int) ([]domain.DatasetVersion, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY version_id DESC",
		strings.Join(repository.VersionsTable.ColumnNames(), ", "), repository.VersionsTable.Name)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var versions []domain.DatasetVersion
	if err := s.conn.Select(ctx, &versions, query); err != nil {
		return nil, fmt.Errorf("failed to list dataset versions: %w", err)
	}
	return versions, nil
}

// Ping checks if the ClickHouse connection is alive
func (s *Sink) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
