package domain

import "time"

// DayBatch holds every row produced while simulating one date.
// Metrics holds the rollups finalized by this day, usually exactly one.
type DayBatch struct {
	Date      time.Time
	Index     int
	Users     []User
	Sessions  []Session
	Events    []Event
	Purchases []Purchase
	Metrics   []DailyMetric
}

// Rows returns the total row count across all tables
func (b *DayBatch) Rows() int {
	return len(b.Users) + len(b.Sessions) + len(b.Events) + len(b.Purchases) + len(b.Metrics)
}

// RunSummary describes the scope and size of a finished generation run
type RunSummary struct {
	GeneratorType string
	StartDate     time.Time
	EndDate       time.Time
	Seed          int64
	Users         int64
	Sessions      int64
	Events        int64
	Purchases     int64
	Days          int
	CompletedAt   time.Time
	Versions      map[string]int64
}
