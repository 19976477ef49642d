package repository

import (
	"slices"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

// ColumnType is the portable column type every dialect maps to its own DDL
type ColumnType int

const (
	Int64 ColumnType = iota
	Float64
	NullableFloat64
	String
	Bool
	Date
	Timestamp
)

type Column struct {
	Name string
	Type ColumnType
}

// Table describes one generated table. Every sink uses the same names and columns
// so downstream readers see an identical shape regardless of engine.
type Table struct {
	Name    string
	Columns []Column
	// Key is the column used to order the table in engines that need one
	Key string
}

// Staging returns the name of the table a run writes into before promotion
func (t Table) Staging() string {
	return t.Name + "_staging"
}

// ColumnNames returns the column names in declaration order
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

var (
	UsersTable = Table{
		Name: "users",
		Key:  "user_id",
		Columns: []Column{
			{"user_id", Int64},
			{"signup_date", Date},
			{"device", String},
			{"channel", String},
			{"segment", String},
		},
	}

	SessionsTable = Table{
		Name: "sessions",
		Key:  "session_id",
		Columns: []Column{
			{"session_id", String},
			{"user_id", Int64},
			{"session_start", Timestamp},
			{"session_end", Timestamp},
			{"is_promotion_day", Bool},
			{"session_length_sec", Int64},
		},
	}

	EventsTable = Table{
		Name: "events",
		Key:  "event_id",
		Columns: []Column{
			{"event_id", Int64},
			{"session_id", String},
			{"user_id", Int64},
			{"event_name", String},
			{"event_time", Timestamp},
			{"amount", NullableFloat64},
			{"segment", String},
			{"event_date", Date},
		},
	}

	PurchasesTable = Table{
		Name: "purchases",
		Key:  "purchase_id",
		Columns: []Column{
			{"purchase_id", Int64},
			{"user_id", Int64},
			{"session_id", String},
			{"purchase_time", Timestamp},
			{"amount", Float64},
			{"product_id", Int64},
			{"coupon_used", Bool},
		},
	}

	DailyMetricsTable = Table{
		Name: "daily_metrics",
		Key:  "date",
		Columns: []Column{
			{"date", Date},
			{"dau", Int64},
			{"new_users", Int64},
			{"sessions", Int64},
			{"purchases", Int64},
			{"revenue", Float64},
		},
	}

	VersionsTable = Table{
		Name: "dataset_versions",
		Key:  "version_id",
		Columns: []Column{
			{"version_id", Int64},
			{"created_at", Timestamp},
			{"generator_type", String},
			{"start_date", Date},
			{"end_date", Date},
			{"n_users", Int64},
			{"n_events", Int64},
		},
	}
)

// DatasetTables are replaced wholesale by every run, in write order
var DatasetTables = []Table{UsersTable, SessionsTable, EventsTable, PurchasesTable, DailyMetricsTable}

func UserRow(u domain.User) []any {
	return []any{u.UserID, u.SignupDate, u.Device, u.Channel, u.Segment}
}

func SessionRow(s domain.Session) []any {
	return []any{s.SessionID, s.UserID, s.SessionStart, s.SessionEnd, s.IsPromotionDay, s.LengthSec}
}

// EventRow leaves amount as nil for non-purchase events
func EventRow(e domain.Event) []any {
	var amount any
	if e.Amount != nil {
		amount = *e.Amount
	}
	return []any{e.EventID, e.SessionID, e.UserID, e.EventName, e.EventTime, amount, e.Segment, e.EventDate}
}

func PurchaseRow(p domain.Purchase) []any {
	return []any{p.PurchaseID, p.UserID, p.SessionID, p.PurchaseTime, p.Amount, p.ProductID, p.CouponUsed}
}

func DailyMetricRow(m domain.DailyMetric) []any {
	return []any{m.Date, m.DAU, m.NewUsers, m.Sessions, m.Purchases, m.Revenue}
}

func VersionRow(v domain.DatasetVersion) []any {
	return []any{v.VersionID, v.CreatedAt, v.GeneratorType, v.StartDate, v.EndDate, v.NUsers, v.NEvents}
}

// Rows converts a slice of records with one of the row helpers above
func Rows[T any](items []T, row func(T) []any) [][]any {
	out := make([][]any, len(items))
	for i, it := range items {
		out[i] = row(it)
	}
	return out
}

// AllTables returns the dataset tables followed by the version ledger
func AllTables() []Table {
	return slices.Concat(DatasetTables, []Table{VersionsTable})
}
