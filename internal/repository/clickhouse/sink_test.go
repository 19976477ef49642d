package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
)

func TestCreateTableQuery_Events(t *testing.T) {
	query := createTableQuery(repository.EventsTable, repository.EventsTable.Staging())

	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS events_staging (event_id Int64, session_id String, user_id Int64, "+
			"event_name String, event_time DateTime, amount Nullable(Float64), segment String, event_date Date) "+
			"ENGINE = MergeTree ORDER BY event_id",
		query)
}

func TestCreateTableQuery_EveryTableHasKeyColumn(t *testing.T) {
	for _, table := range repository.AllTables() {
		assert.Contains(t, table.ColumnNames(), table.Key, table.Name)
		assert.Contains(t, createTableQuery(table, table.Name), "ORDER BY "+table.Key)
	}
}

func TestSink_Name(t *testing.T) {
	s := &Sink{log: zap.NewNop()}
	assert.Equal(t, config.SinkClickHouse, s.Name())
	assert.NoError(t, s.Close())
}
