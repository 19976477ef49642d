package domain

import "time"

// DailyMetric is one row of the daily rollup table
type DailyMetric struct {
	Date      time.Time `ch:"date"`
	DAU       int64     `ch:"dau"`
	NewUsers  int64     `ch:"new_users"`
	Sessions  int64     `ch:"sessions"`
	Purchases int64     `ch:"purchases"`
	Revenue   float64   `ch:"revenue"`
}

// DatasetVersion is an append-only lineage record of a completed run
type DatasetVersion struct {
	VersionID     int64     `ch:"version_id" json:"version_id"`
	CreatedAt     time.Time `ch:"created_at" json:"created_at"`
	GeneratorType string    `ch:"generator_type" json:"generator_type"`
	StartDate     time.Time `ch:"start_date" json:"start_date"`
	EndDate       time.Time `ch:"end_date" json:"end_date"`
	NUsers        int64     `ch:"n_users" json:"n_users"`
	NEvents       int64     `ch:"n_events" json:"n_events"`
}
