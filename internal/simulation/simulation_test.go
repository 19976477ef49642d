package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

type collected struct {
	users     []domain.User
	sessions  []domain.Session
	events    []domain.Event
	purchases []domain.Purchase
	metrics   []domain.DailyMetric
}

func runAll(t *testing.T, p *config.Profile) (*Simulation, collected) {
	t.Helper()
	sim, err := New(p, time.Now())
	require.NoError(t, err)

	var out collected
	err = sim.Run(context.Background(), func(b *domain.DayBatch) error {
		out.users = append(out.users, b.Users...)
		out.sessions = append(out.sessions, b.Sessions...)
		out.events = append(out.events, b.Events...)
		out.purchases = append(out.purchases, b.Purchases...)
		out.metrics = append(out.metrics, b.Metrics...)
		return nil
	})
	require.NoError(t, err)
	return sim, out
}

func TestRun_ThreeDaysOneUserPerDay(t *testing.T) {
	p := testProfile("2025-01-01", "2025-01-03", 7)
	p.DailyNewUsers = config.IntRange{Min: 1, Max: 1}
	p.EventsPerSession = config.IntRange{Min: 1, Max: 1}

	sim, out := runAll(t, p)

	assert.Equal(t, 3, sim.Days())
	require.Len(t, out.users, 3)
	for i, u := range out.users {
		assert.Equal(t, int64(i+1), u.UserID)
		assert.Equal(t, sim.Start().AddDate(0, 0, i), u.SignupDate)
	}

	assert.Len(t, out.events, 3*len(out.sessions))
	perSession := map[string]int{}
	for _, e := range out.events {
		perSession[e.SessionID]++
	}
	for id, n := range perSession {
		assert.Equal(t, 3, n, id)
	}

	require.Len(t, out.metrics, 3)
	for i, m := range out.metrics {
		assert.Equal(t, sim.Start().AddDate(0, 0, i), m.Date)
		assert.Equal(t, int64(1), m.NewUsers)
		assert.GreaterOrEqual(t, m.DAU, int64(1))
	}

	summary := sim.Summary()
	assert.Equal(t, int64(3), summary.Users)
	assert.Equal(t, int64(len(out.sessions)), summary.Sessions)
	assert.Equal(t, int64(len(out.events)), summary.Events)
	assert.Equal(t, int64(7), summary.Seed)
}

func TestRun_Invariants(t *testing.T) {
	p := testProfile("2025-02-01", "2025-03-15", 21)
	p.DailyNewUsers = config.IntRange{Min: 5, Max: 20}

	sim, out := runAll(t, p)

	signup := map[int64]time.Time{}
	for _, u := range out.users {
		signup[u.UserID] = u.SignupDate
	}

	seenEventIDs := map[int64]bool{}
	var prev int64
	for _, e := range out.events {
		assert.Greater(t, e.EventID, prev)
		prev = e.EventID
		assert.False(t, seenEventIDs[e.EventID])
		seenEventIDs[e.EventID] = true

		su, ok := signup[e.UserID]
		require.True(t, ok, "event for unknown user %d", e.UserID)
		assert.False(t, e.EventDate.Before(su))
	}

	purchaseEvents := 0
	for _, e := range out.events {
		if e.IsPurchase() {
			purchaseEvents++
		}
	}
	assert.Len(t, out.purchases, purchaseEvents)
	for _, pu := range out.purchases {
		assert.GreaterOrEqual(t, pu.ProductID, int64(1))
		assert.LessOrEqual(t, pu.ProductID, int64(maxProductID))
		assert.Greater(t, pu.Amount, 0.0)
	}

	require.Len(t, out.metrics, sim.Days())
	for i, m := range out.metrics {
		assert.Equal(t, sim.Start().AddDate(0, 0, i), m.Date)
	}

	// the rolling rollup agrees with a rollup over the full collections
	assert.Equal(t, BuildDailyMetrics(sim.Start(), sim.End(), out.users, out.sessions, out.events, out.purchases), out.metrics)
}

func TestRun_SessionsSpillPastMidnight(t *testing.T) {
	p := testProfile("2025-04-01", "2025-04-04", 5)
	p.DailyNewUsers = config.IntRange{Min: 2, Max: 2}
	p.EventsPerSession = config.IntRange{Min: 300, Max: 900}

	sim, out := runAll(t, p)

	starts := map[string]time.Time{}
	for _, s := range out.sessions {
		starts[s.SessionID] = dayOf(s.SessionStart)
	}

	spilled, pastEnd := 0, 0
	for _, e := range out.events {
		assert.Equal(t, dayOf(e.EventTime), e.EventDate)
		if e.EventDate.After(starts[e.SessionID]) {
			spilled++
		}
		if e.EventDate.After(sim.End()) {
			pastEnd++
		}
	}
	assert.Positive(t, spilled)
	assert.Positive(t, pastEnd)

	// events past the run end are kept but never extend the metric axis
	require.Len(t, out.metrics, sim.Days())
	assert.Equal(t, sim.End(), out.metrics[len(out.metrics)-1].Date)
	assert.Equal(t, BuildDailyMetrics(sim.Start(), sim.End(), out.users, out.sessions, out.events, out.purchases), out.metrics)
}

func TestRun_SameSeedSameDataset(t *testing.T) {
	_, a := runAll(t, testProfile("2025-01-01", "2025-01-20", 99))
	_, b := runAll(t, testProfile("2025-01-01", "2025-01-20", 99))

	assert.Equal(t, a, b)
}

func TestRun_DifferentSeedsDiffer(t *testing.T) {
	_, a := runAll(t, testProfile("2025-01-01", "2025-01-20", 1))
	_, b := runAll(t, testProfile("2025-01-01", "2025-01-20", 2))

	assert.NotEqual(t, a.events, b.events)
}

func TestRun_MaxUsersCap(t *testing.T) {
	p := testProfile("2025-01-01", "2025-01-10", 3)
	p.DailyNewUsers = config.IntRange{Min: 10, Max: 10}
	p.MaxUsers = 25

	sim, out := runAll(t, p)
	assert.Len(t, out.users, 25)
	assert.Equal(t, 25, sim.Population().Len())
}

func TestRun_StopsOnCallbackError(t *testing.T) {
	sim, err := New(testProfile("2025-01-01", "2025-01-10", 5), time.Now())
	require.NoError(t, err)

	boom := errors.New("boom")
	calls := 0
	err = sim.Run(context.Background(), func(*domain.DayBatch) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestRun_Cancelled(t *testing.T) {
	sim, err := New(testProfile("2025-01-01", "2025-01-10", 5), time.Now())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sim.Run(ctx, func(*domain.DayBatch) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidProfile(t *testing.T) {
	p := testProfile("2025-01-05", "2025-01-01", 1)
	p.DailyNewUsers = config.IntRange{Min: 10, Max: 5}

	_, err := New(p, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.GreaterOrEqual(t, len(cfgErr.Problems), 2)
}

func TestNew_DaysAnchoredToNow(t *testing.T) {
	p := config.DefaultProfile()
	p.Days = 10
	seed := int64(4)
	p.Seed = &seed
	p.DailyNewUsers = config.IntRange{Min: 1, Max: 2}

	now := time.Date(2025, 6, 30, 15, 4, 5, 0, time.UTC)
	sim, err := New(p, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), sim.Start())
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), sim.End())
	assert.Equal(t, 10, sim.Days())
}
