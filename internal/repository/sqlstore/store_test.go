package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
)

var day = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), config.SQLite{Path: path}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func writeGeneration(t *testing.T, s *Store, users int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.InitSchema(ctx))
	require.NoError(t, s.ClearTables(ctx))

	var us []domain.User
	for i := range users {
		us = append(us, domain.User{UserID: int64(i + 1), SignupDate: day, Device: "web", Channel: "organic", Segment: "light"})
	}
	amount := 2300.0
	require.NoError(t, s.InsertUsers(ctx, us))
	require.NoError(t, s.InsertSessions(ctx, []domain.Session{{
		SessionID: "1-20250101-0", UserID: 1, SessionStart: day.Add(time.Hour), SessionEnd: day.Add(2 * time.Hour), LengthSec: 3600,
	}}))
	require.NoError(t, s.InsertEvents(ctx, []domain.Event{
		{EventID: 1, SessionID: "1-20250101-0", UserID: 1, EventName: domain.EventSessionStart, EventTime: day.Add(time.Hour), Segment: "light", EventDate: day},
		{EventID: 2, SessionID: "1-20250101-0", UserID: 1, EventName: domain.EventPurchase, EventTime: day.Add(90 * time.Minute), Amount: &amount, Segment: "light", EventDate: day},
	}))
	require.NoError(t, s.InsertPurchases(ctx, []domain.Purchase{{
		PurchaseID: 1, UserID: 1, SessionID: "1-20250101-0", PurchaseTime: day.Add(90 * time.Minute), Amount: amount, ProductID: 42, CouponUsed: true,
	}}))
	require.NoError(t, s.InsertDailyMetrics(ctx, []domain.DailyMetric{{Date: day, DAU: 1, NewUsers: int64(users), Sessions: 1, Purchases: 1, Revenue: amount}}))
}

func TestSQLiteStore_PromoteReplacesLiveTables(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "db", "events.sqlite"))

	writeGeneration(t, s, 3)
	assert.Equal(t, 0, countRows(t, s, "users"))
	assert.Equal(t, 3, countRows(t, s, "users_staging"))

	require.NoError(t, s.Promote(ctx))
	assert.Equal(t, 3, countRows(t, s, "users"))
	assert.Equal(t, 2, countRows(t, s, "events"))

	// a second generation replaces the first wholesale
	writeGeneration(t, s, 5)
	assert.Equal(t, 3, countRows(t, s, "users"))
	require.NoError(t, s.Promote(ctx))
	assert.Equal(t, 5, countRows(t, s, "users"))
	assert.Equal(t, 1, countRows(t, s, "purchases"))
	assert.Equal(t, 1, countRows(t, s, "daily_metrics"))
}

func TestSQLiteStore_UnpromotedRunKeepsLiveData(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "events.sqlite"))

	writeGeneration(t, s, 2)
	require.NoError(t, s.Promote(ctx))

	// a failed run stops after init and a partial write
	require.NoError(t, s.InitSchema(ctx))
	require.NoError(t, s.InsertUsers(ctx, []domain.User{{UserID: 1, SignupDate: day, Device: "ios", Channel: "email", Segment: "vip"}}))

	assert.Equal(t, 2, countRows(t, s, "users"))
	assert.Equal(t, 1, countRows(t, s, "users_staging"))
}

func TestSQLiteStore_NullAmountForNonPurchase(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "events.sqlite"))
	writeGeneration(t, s, 1)
	require.NoError(t, s.Promote(ctx))

	var nulls int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM events WHERE amount IS NULL").Scan(&nulls))
	assert.Equal(t, 1, nulls)
}

func TestSQLiteStore_InsertInChunks(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "events.sqlite"))
	require.NoError(t, s.InitSchema(ctx))

	users := make([]domain.User, rowsPerInsert*2+7)
	for i := range users {
		users[i] = domain.User{UserID: int64(i + 1), SignupDate: day, Device: "web", Channel: "organic", Segment: "light"}
	}
	require.NoError(t, s.InsertUsers(ctx, users))
	assert.Equal(t, len(users), countRows(t, s, repository.UsersTable.Staging()))
}

func TestSQLiteStore_VersionLedger(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "events.sqlite"))
	require.NoError(t, s.InitSchema(ctx))

	maxID, err := s.MaxVersionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), maxID)

	created := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, s.AppendVersion(ctx, domain.DatasetVersion{
			VersionID: i, CreatedAt: created, GeneratorType: "advanced",
			StartDate: day, EndDate: day.AddDate(0, 0, 9), NUsers: 10 * i, NEvents: 100 * i,
		}))
	}

	maxID, err = s.MaxVersionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), maxID)

	versions, err := s.ListVersions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, int64(3), versions[0].VersionID)
	assert.Equal(t, int64(2), versions[1].VersionID)
	assert.Equal(t, created, versions[0].CreatedAt)
	assert.Equal(t, day, versions[0].StartDate)
	assert.Equal(t, day.AddDate(0, 0, 9), versions[0].EndDate)
	assert.Equal(t, int64(30), versions[0].NUsers)

	// the ledger survives schema init
	require.NoError(t, s.InitSchema(ctx))
	all, err := s.ListVersions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.Error(t, s.AppendVersion(ctx, domain.DatasetVersion{VersionID: 3, CreatedAt: created, StartDate: day, EndDate: day}))
}

func TestTimeScanner(t *testing.T) {
	var got time.Time
	sc := timeScanner{&got}

	require.NoError(t, sc.Scan("2025-01-02"))
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), got)

	require.NoError(t, sc.Scan([]byte("2025-01-02 03:04:05")))
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), got)

	require.NoError(t, sc.Scan("2025-01-02 03:04:05+00:00"))
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), got)

	assert.Error(t, sc.Scan("yesterday"))
	assert.Error(t, sc.Scan(12))
}

func TestCreateTableQuery_Postgres(t *testing.T) {
	s := &Store{dialect: postgresDialect{}}
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS daily_metrics (date DATE NOT NULL, dau BIGINT NOT NULL, new_users BIGINT NOT NULL, "+
			"sessions BIGINT NOT NULL, purchases BIGINT NOT NULL, revenue DOUBLE PRECISION NOT NULL)",
		s.createTableQuery(repository.DailyMetricsTable, "daily_metrics", false))
	assert.Contains(t, s.createTableQuery(repository.VersionsTable, "dataset_versions", true), "PRIMARY KEY (version_id)")
}

func TestSQLiteStore_EnsureLedgerOnly(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "events.sqlite"))

	require.NoError(t, s.EnsureLedger(ctx))
	versions, err := s.ListVersions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, versions)

	var tables int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'").Scan(&tables))
	assert.Equal(t, 1, tables)
}
