package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

func TestBuildDailyMetrics_ContiguousAndZeroFilled(t *testing.T) {
	day := func(i int) time.Time { return testStart.AddDate(0, 0, i) }
	at := func(i int, h int) time.Time { return day(i).Add(time.Duration(h) * time.Hour) }

	users := []domain.User{{UserID: 1, SignupDate: day(0)}, {UserID: 2, SignupDate: day(3)}}
	sessions := []domain.Session{
		{SessionID: "1-a", UserID: 1, SessionStart: at(0, 10)},
		{SessionID: "1-b", UserID: 1, SessionStart: at(0, 20)},
		{SessionID: "2-a", UserID: 2, SessionStart: at(3, 9)},
	}
	amount := 1200.0
	events := []domain.Event{
		{EventID: 1, UserID: 1, EventDate: day(0)},
		{EventID: 2, UserID: 1, EventDate: day(0), EventName: domain.EventPurchase, Amount: &amount},
		{EventID: 3, UserID: 2, EventDate: day(3)},
		{EventID: 4, UserID: 1, EventDate: day(3)},
		// outside the range, must not produce a row
		{EventID: 5, UserID: 1, EventDate: day(9)},
	}
	purchases := []domain.Purchase{
		{PurchaseID: 1, UserID: 1, PurchaseTime: at(0, 20), Amount: 1200},
		{PurchaseID: 2, UserID: 2, PurchaseTime: at(3, 9), Amount: 300},
		{PurchaseID: 2, UserID: 2, PurchaseTime: at(3, 9), Amount: 300},
	}

	metrics := BuildDailyMetrics(day(0), day(4), users, sessions, events, purchases)
	require.Len(t, metrics, 5)

	for i, m := range metrics {
		assert.Equal(t, day(i), m.Date)
	}
	assert.Equal(t, domain.DailyMetric{Date: day(0), DAU: 1, NewUsers: 1, Sessions: 2, Purchases: 1, Revenue: 1200}, metrics[0])
	assert.Equal(t, domain.DailyMetric{Date: day(1)}, metrics[1])
	assert.Equal(t, domain.DailyMetric{Date: day(2)}, metrics[2])
	assert.Equal(t, domain.DailyMetric{Date: day(3), DAU: 2, NewUsers: 1, Sessions: 1, Purchases: 1, Revenue: 300}, metrics[3])
	assert.Equal(t, domain.DailyMetric{Date: day(4)}, metrics[4])
}

func TestDailyAccumulator_FinalizeThroughReleasesDates(t *testing.T) {
	acc := NewDailyAccumulator(testStart, testStart.AddDate(0, 0, 2))

	acc.AddEvents([]domain.Event{
		{UserID: 1, EventDate: testStart},
		{UserID: 1, EventDate: testStart.AddDate(0, 0, 1)},
	})
	first := acc.FinalizeThrough(0)
	require.Len(t, first, 1)
	assert.Equal(t, int64(1), first[0].DAU)

	// late rows for a finalized date are ignored
	acc.AddEvents([]domain.Event{{UserID: 2, EventDate: testStart}})
	assert.Empty(t, acc.FinalizeThrough(0))

	rest := acc.Finalize()
	require.Len(t, rest, 2)
	assert.Equal(t, int64(1), rest[0].DAU)
	assert.Equal(t, int64(0), rest[1].DAU)
	assert.Empty(t, acc.Finalize())
}
