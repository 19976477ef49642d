package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

func TestDefaultProfile_IsValid(t *testing.T) {
	assert.NoError(t, DefaultProfile().Validate())
}

func TestLoadProfile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `
generator_type: basic
start_date: 2025-03-01
end_date: 2025-03-03
daily_new_users: {min: 1, max: 1}
events_per_session: {min: 1, max: 1}
segments:
  - {name: vip, weight: 2}
  - {name: casual, weight: 8}
sinks: [memory, sqlite]
seed: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, "basic", p.GeneratorType)
	assert.Equal(t, []string{"vip", "casual"}, p.Segments.Names())
	assert.Equal(t, []string{SinkMemory, SinkSQLite}, p.Sinks)
	require.NotNil(t, p.Seed)
	assert.Equal(t, int64(7), *p.Seed)
	// untouched sections keep their defaults
	assert.Len(t, p.Devices, 3)
	assert.Equal(t, DefaultBatchThreshold, p.BatchThreshold)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestProfile_Resolve(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 4, 5, 0, time.UTC)

	p := DefaultProfile()
	p.Days = 10
	start, end, err := p.Resolve(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), end)

	p.StartDate, p.EndDate = "2025-01-05", "2025-01-01"
	_, _, err = p.Resolve(now)
	assert.Error(t, err)
}

func TestProfile_Validate_ReportsEveryProblem(t *testing.T) {
	p := DefaultProfile()
	p.DailyNewUsers = IntRange{Min: 10, Max: 5}
	p.Segments = Distribution{{Name: "a", Weight: 0}, {Name: "a", Weight: 1}}
	p.EventWeights = append(p.EventWeights, Weighted{Name: "teleport", Weight: 1})
	p.Sinks = []string{"oracle"}
	p.Retention.Steps = []RetentionStep{{MaxAgeDays: 0, Probability: 0.5}, {MaxAgeDays: 3, Probability: 0.9}}

	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	joined := cfgErr.Error()
	assert.Contains(t, joined, "daily_new_users: min 10 > max 5")
	assert.Contains(t, joined, `segments: weight for "a" must be > 0`)
	assert.Contains(t, joined, `segments: duplicate entry "a"`)
	assert.Contains(t, joined, `unknown funnel stage "teleport"`)
	assert.Contains(t, joined, `unknown sink "oracle"`)
	assert.Contains(t, joined, "curve must be non-increasing")
}

func TestLoad_DefaultsFromEnvironment(t *testing.T) {
	t.Setenv("SERVICE_ENVIRONMENT", "production")
	t.Setenv("GENERATOR_SINKS", "clickhouse,postgres")
	t.Setenv("CLICKHOUSE_PORT", "9440")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Service.Environment)
	assert.Equal(t, "8080", cfg.Service.APIPort)
	assert.Equal(t, "9440", cfg.ClickHouse.Port)
	assert.Equal(t, []string{"clickhouse", "postgres"}, cfg.Generator.Sinks)
	assert.Equal(t, "", cfg.SQS.QueueURL)
}

func TestGenerator_BaseProfile_SinkOverride(t *testing.T) {
	p, err := Generator{Sinks: []string{SinkMemory, SinkClickHouse}}.BaseProfile()
	require.NoError(t, err)
	assert.Equal(t, []string{SinkMemory, SinkClickHouse}, p.Sinks)

	p, err = Generator{}.BaseProfile()
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile().Sinks, p.Sinks)

	_, err = Generator{ProfilePath: filepath.Join(t.TempDir(), "absent.yaml")}.BaseProfile()
	assert.Error(t, err)
}
