package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
)

// rowsPerInsert bounds the multi-row INSERT statements used where no COPY path exists
const rowsPerInsert = 500

// dialect captures what differs between the relational engines
type dialect interface {
	name() string
	columnType(t repository.ColumnType) string
	placeholder(i int) string
	truncate(table string) string
	// bulkInsert writes rows inside tx using the engine's fastest path
	bulkInsert(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error
	// promote replaces every live table with its staging table
	promote(ctx context.Context, db *sql.DB, tables []repository.Table) error
}

type postgresDialect struct{}

func (postgresDialect) name() string { return config.SinkPostgres }

func (postgresDialect) columnType(t repository.ColumnType) string {
	switch t {
	case repository.Int64:
		return "BIGINT"
	case repository.Float64, repository.NullableFloat64:
		return "DOUBLE PRECISION"
	case repository.Bool:
		return "BOOLEAN"
	case repository.Date:
		return "DATE"
	case repository.Timestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (postgresDialect) placeholder(i int) string { return fmt.Sprintf("$%d", i) }

func (postgresDialect) truncate(table string) string { return "TRUNCATE TABLE " + table }

// bulkInsert streams rows through COPY FROM STDIN
func (postgresDialect) bulkInsert(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy into %s: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to copy row into %s: %w", table, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to flush copy into %s: %w", table, err)
	}
	return nil
}

func (postgresDialect) promote(ctx context.Context, db *sql.DB, tables []repository.Table) error {
	return renameInTx(ctx, db, tables)
}

type mysqlDialect struct{}

func (mysqlDialect) name() string { return config.SinkMySQL }

func (mysqlDialect) columnType(t repository.ColumnType) string {
	switch t {
	case repository.Int64:
		return "BIGINT"
	case repository.Float64, repository.NullableFloat64:
		return "DOUBLE"
	case repository.Bool:
		return "BOOLEAN"
	case repository.Date:
		return "DATE"
	case repository.Timestamp:
		return "DATETIME"
	default:
		return "VARCHAR(255)"
	}
}

func (mysqlDialect) placeholder(int) string { return "?" }

func (mysqlDialect) truncate(table string) string { return "TRUNCATE TABLE " + table }

func (d mysqlDialect) bulkInsert(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error {
	return insertValues(ctx, tx, d, table, columns, rows)
}

// promote uses one multi-table RENAME TABLE, which MySQL applies atomically.
// DDL commits implicitly in MySQL so no transaction is involved.
func (mysqlDialect) promote(ctx context.Context, db *sql.DB, tables []repository.Table) error {
	var olds, renames []string
	for _, t := range tables {
		old := t.Name + "_old"
		olds = append(olds, old)
		renames = append(renames, fmt.Sprintf("%s TO %s", t.Name, old), fmt.Sprintf("%s TO %s", t.Staging(), t.Name))
	}
	dropOld := "DROP TABLE IF EXISTS " + strings.Join(olds, ", ")

	if _, err := db.ExecContext(ctx, dropOld); err != nil {
		return fmt.Errorf("failed to drop leftover tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, "RENAME TABLE "+strings.Join(renames, ", ")); err != nil {
		return fmt.Errorf("failed to rename staging tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, dropOld); err != nil {
		return fmt.Errorf("failed to drop previous generation: %w", err)
	}
	return nil
}

type sqliteDialect struct{}

func (sqliteDialect) name() string { return config.SinkSQLite }

func (sqliteDialect) columnType(t repository.ColumnType) string {
	switch t {
	case repository.Int64:
		return "INTEGER"
	case repository.Float64, repository.NullableFloat64:
		return "REAL"
	case repository.Bool:
		return "BOOLEAN"
	case repository.Date:
		return "DATE"
	case repository.Timestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (sqliteDialect) placeholder(int) string { return "?" }

func (sqliteDialect) truncate(table string) string { return "DELETE FROM " + table }

func (d sqliteDialect) bulkInsert(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error {
	return insertValues(ctx, tx, d, table, columns, rows)
}

func (sqliteDialect) promote(ctx context.Context, db *sql.DB, tables []repository.Table) error {
	return renameInTx(ctx, db, tables)
}

// insertValues writes rows with multi-row INSERT statements of at most rowsPerInsert rows
func insertValues(ctx context.Context, tx *sql.Tx, d dialect, table string, columns []string, rows [][]any) error {
	for start := 0; start < len(rows); start += rowsPerInsert {
		chunk := rows[start:min(start+rowsPerInsert, len(rows))]

		var b strings.Builder
		fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))
		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j := range row {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(d.placeholder(len(args) + 1))
				args = append(args, row[j])
			}
			b.WriteString(")")
		}

		if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// renameInTx drops each live table and renames its staging table in place, all in one
// transaction. Postgres and SQLite both run DDL transactionally.
func renameInTx(ctx context.Context, db *sql.DB, tables []repository.Table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin promotion: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+t.Name); err != nil {
			return fmt.Errorf("failed to drop %s: %w", t.Name, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", t.Staging(), t.Name)); err != nil {
			return fmt.Errorf("failed to rename %s: %w", t.Staging(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit promotion: %w", err)
	}
	return nil
}
