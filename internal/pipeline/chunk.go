package pipeline

import "github.com/BarkinBalci/event-dataset-generator/internal/domain"

// chunk is a run of rows across all dataset tables, kept in table write order
type chunk struct {
	users     []domain.User
	sessions  []domain.Session
	events    []domain.Event
	purchases []domain.Purchase
	metrics   []domain.DailyMetric
}

func chunkOf(b *domain.DayBatch) chunk {
	return chunk{users: b.Users, sessions: b.Sessions, events: b.Events, purchases: b.Purchases, metrics: b.Metrics}
}

func (c chunk) rows() int {
	return len(c.users) + len(c.sessions) + len(c.events) + len(c.purchases) + len(c.metrics)
}

// cut moves up to n items from the front of s to head and returns how many rows are still wanted
func cut[T any](s []T, n int) (head, tail []T, left int) {
	k := min(n, len(s))
	return s[:k], s[k:], n - k
}

// split returns the first n rows and the remainder. Both share c's backing arrays.
func (c chunk) split(n int) (head, tail chunk) {
	head.users, tail.users, n = cut(c.users, n)
	head.sessions, tail.sessions, n = cut(c.sessions, n)
	head.events, tail.events, n = cut(c.events, n)
	head.purchases, tail.purchases, n = cut(c.purchases, n)
	head.metrics, tail.metrics, _ = cut(c.metrics, n)
	return head, tail
}

// absorb copies o's rows into c's own slices
func (c *chunk) absorb(o chunk) {
	c.users = append(c.users, o.users...)
	c.sessions = append(c.sessions, o.sessions...)
	c.events = append(c.events, o.events...)
	c.purchases = append(c.purchases, o.purchases...)
	c.metrics = append(c.metrics, o.metrics...)
}
