package simulation

import (
	"time"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

type dayStats struct {
	users     map[int64]struct{}
	sessions  map[string]struct{}
	purchases map[int64]struct{}
	newUsers  map[int64]struct{}
	revenue   float64
}

func newDayStats() *dayStats {
	return &dayStats{
		users:     make(map[int64]struct{}),
		sessions:  make(map[string]struct{}),
		purchases: make(map[int64]struct{}),
		newUsers:  make(map[int64]struct{}),
	}
}

// DailyAccumulator rolls rows up into one DailyMetric per date of [start, end].
// Only dates that are still open keep state; finalized dates are released.
type DailyAccumulator struct {
	start     time.Time
	days      int
	open      map[int]*dayStats
	finalized int
}

// NewDailyAccumulator covers the inclusive date range [start, end]
func NewDailyAccumulator(start, end time.Time) *DailyAccumulator {
	return &DailyAccumulator{
		start: dayOf(start),
		days:  daysBetween(start, end) + 1,
		open:  make(map[int]*dayStats),
	}
}

// stats returns the open bucket for t, or nil when t is outside the range or already finalized
func (a *DailyAccumulator) stats(t time.Time) *dayStats {
	i := daysBetween(a.start, t)
	if i < a.finalized || i >= a.days {
		return nil
	}
	s, ok := a.open[i]
	if !ok {
		s = newDayStats()
		a.open[i] = s
	}
	return s
}

func (a *DailyAccumulator) AddUsers(users []domain.User) {
	for _, u := range users {
		if s := a.stats(u.SignupDate); s != nil {
			s.newUsers[u.UserID] = struct{}{}
		}
	}
}

func (a *DailyAccumulator) AddSessions(sessions []domain.Session) {
	for _, ss := range sessions {
		if s := a.stats(ss.SessionStart); s != nil {
			s.sessions[ss.SessionID] = struct{}{}
		}
	}
}

// AddEvents counts activity by each event's own date
func (a *DailyAccumulator) AddEvents(events []domain.Event) {
	for _, e := range events {
		if s := a.stats(e.EventDate); s != nil {
			s.users[e.UserID] = struct{}{}
		}
	}
}

func (a *DailyAccumulator) AddPurchases(purchases []domain.Purchase) {
	for _, p := range purchases {
		if s := a.stats(p.PurchaseTime); s != nil {
			if _, dup := s.purchases[p.PurchaseID]; dup {
				continue
			}
			s.purchases[p.PurchaseID] = struct{}{}
			s.revenue += p.Amount
		}
	}
}

// FinalizeThrough emits rows for every not yet emitted date up to day index last, zero-filled
// where nothing happened, in ascending date order.
func (a *DailyAccumulator) FinalizeThrough(last int) []domain.DailyMetric {
	last = min(last, a.days-1)
	if last < a.finalized {
		return nil
	}

	out := make([]domain.DailyMetric, 0, last-a.finalized+1)
	for i := a.finalized; i <= last; i++ {
		m := domain.DailyMetric{Date: a.start.AddDate(0, 0, i)}
		if s, ok := a.open[i]; ok {
			m.DAU = int64(len(s.users))
			m.NewUsers = int64(len(s.newUsers))
			m.Sessions = int64(len(s.sessions))
			m.Purchases = int64(len(s.purchases))
			m.Revenue = s.revenue
			delete(a.open, i)
		}
		out = append(out, m)
	}
	a.finalized = last + 1

	return out
}

// Finalize emits every remaining date of the range
func (a *DailyAccumulator) Finalize() []domain.DailyMetric {
	return a.FinalizeThrough(a.days - 1)
}

// BuildDailyMetrics aggregates full collections into the contiguous daily rollup for [start, end]
func BuildDailyMetrics(start, end time.Time, users []domain.User, sessions []domain.Session, events []domain.Event, purchases []domain.Purchase) []domain.DailyMetric {
	acc := NewDailyAccumulator(start, end)
	acc.AddUsers(users)
	acc.AddSessions(sessions)
	acc.AddEvents(events)
	acc.AddPurchases(purchases)
	return acc.Finalize()
}
