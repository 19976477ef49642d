// Package sqlstore implements the relational sinks over database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
)

// Store is a relational sink with its own version ledger
type Store struct {
	db      *sql.DB
	dialect dialect
	log     *zap.Logger
}

func newStore(db *sql.DB, d dialect, log *zap.Logger) *Store {
	return &Store{db: db, dialect: d, log: log.With(zap.String("sink", d.name()))}
}

func (s *Store) Name() string { return s.dialect.name() }

// DB exposes the handle for read queries
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) createTableQuery(t repository.Table, name string, withKey bool) string {
	cols := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		def := fmt.Sprintf("%s %s", c.Name, s.dialect.columnType(c.Type))
		if c.Type != repository.NullableFloat64 {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}
	if withKey {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", t.Key))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", name, strings.Join(cols, ", "))
}

// InitSchema creates live tables and the ledger if absent, and recreates empty staging tables.
// Dataset tables carry no key constraint since they are renamed on every promotion.
func (s *Store) InitSchema(ctx context.Context) error {
	if err := s.EnsureLedger(ctx); err != nil {
		return err
	}

	for _, t := range repository.DatasetTables {
		if _, err := s.db.ExecContext(ctx, s.createTableQuery(t, t.Name, false)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Name, err)
		}
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+t.Staging()); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", t.Staging(), err)
		}
		if _, err := s.db.ExecContext(ctx, s.createTableQuery(t, t.Staging(), false)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Staging(), err)
		}
	}

	s.log.Info("Schema initialized")
	return nil
}

func (s *Store) ClearTables(ctx context.Context) error {
	for _, t := range repository.DatasetTables {
		if _, err := s.db.ExecContext(ctx, s.dialect.truncate(t.Staging())); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", t.Staging(), err)
		}
	}
	return nil
}

func (s *Store) insert(ctx context.Context, t repository.Table, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert into %s: %w", t.Staging(), err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.dialect.bulkInsert(ctx, tx, t.Staging(), t.ColumnNames(), rows); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insert into %s: %w", t.Staging(), err)
	}
	return nil
}

func (s *Store) InsertUsers(ctx context.Context, users []domain.User) error {
	return s.insert(ctx, repository.UsersTable, repository.Rows(users, repository.UserRow))
}

func (s *Store) InsertSessions(ctx context.Context, sessions []domain.Session) error {
	return s.insert(ctx, repository.SessionsTable, repository.Rows(sessions, repository.SessionRow))
}

func (s *Store) InsertEvents(ctx context.Context, events []domain.Event) error {
	return s.insert(ctx, repository.EventsTable, repository.Rows(events, repository.EventRow))
}

func (s *Store) InsertPurchases(ctx context.Context, purchases []domain.Purchase) error {
	return s.insert(ctx, repository.PurchasesTable, repository.Rows(purchases, repository.PurchaseRow))
}

func (s *Store) InsertDailyMetrics(ctx context.Context, metrics []domain.DailyMetric) error {
	return s.insert(ctx, repository.DailyMetricsTable, repository.Rows(metrics, repository.DailyMetricRow))
}

func (s *Store) Promote(ctx context.Context) error {
	if err := s.dialect.promote(ctx, s.db, repository.DatasetTables); err != nil {
		return err
	}
	s.log.Info("Staging tables promoted")
	return nil
}

func (s *Store) EnsureLedger(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.createTableQuery(repository.VersionsTable, repository.VersionsTable.Name, true)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", repository.VersionsTable.Name, err)
	}
	return nil
}

func (s *Store) MaxVersionID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version_id), 0) FROM "+repository.VersionsTable.Name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to query max version id: %w", err)
	}
	return id, nil
}

func (s *Store) AppendVersion(ctx context.Context, v domain.DatasetVersion) error {
	cols := repository.VersionsTable.ColumnNames()
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = s.dialect.placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repository.VersionsTable.Name, strings.Join(cols, ", "), strings.Join(marks, ", "))

	if _, err := s.db.ExecContext(ctx, query, repository.VersionRow(v)...); err != nil {
		return fmt.Errorf("failed to append dataset version %d: %w", v.VersionID, err)
	}
	return nil
}

func (s *Store) ListVersions(ctx context.Context, limit int) ([]domain.DatasetVersion, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY version_id DESC",
		strings.Join(repository.VersionsTable.ColumnNames(), ", "), repository.VersionsTable.Name)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.DatasetVersion
	for rows.Next() {
		var v domain.DatasetVersion
		if err := rows.Scan(
			&v.VersionID,
			timeScanner{&v.CreatedAt},
			&v.GeneratorType,
			timeScanner{&v.StartDate},
			timeScanner{&v.EndDate},
			&v.NUsers,
			&v.NEvents,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dataset version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dataset versions: %w", err)
	}

	return versions, nil
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		s.log.Error("Error closing connection", zap.Error(err))
		return err
	}
	return nil
}
