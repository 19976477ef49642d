package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
)

const connMaxLifetime = 30 * time.Minute

// OpenPostgres connects to the Postgres sink
func OpenPostgres(ctx context.Context, cfg config.Postgres, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(max(cfg.MaxOpenConns/2, 1))
	db.SetConnMaxLifetime(connMaxLifetime)

	return verify(ctx, db, postgresDialect{}, log)
}

// OpenMySQL connects to the MySQL sink. Time columns are always parsed into time.Time in UTC.
func OpenMySQL(ctx context.Context, cfg config.MySQL, log *zap.Logger) (*Store, error) {
	dsn, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
	}
	dsn.ParseTime = true
	dsn.Loc = time.UTC

	connector, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to build mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(max(cfg.MaxOpenConns/2, 1))
	db.SetConnMaxLifetime(connMaxLifetime)

	return verify(ctx, db, mysqlDialect{}, log)
}

// OpenSQLite opens the embedded sink file, creating its directory if needed
func OpenSQLite(ctx context.Context, cfg config.SQLite, log *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	return verify(ctx, db, sqliteDialect{}, log)
}

func verify(ctx context.Context, db *sql.DB, d dialect, log *zap.Logger) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", d.name(), err)
	}

	log.Info("Database connection established", zap.String("sink", d.name()))
	return newStore(db, d, log), nil
}
