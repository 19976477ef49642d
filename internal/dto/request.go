package dto

// CreateGenerationRequest overrides fields of the configured generation profile for one run.
// Every field is optional.
type CreateGenerationRequest struct {
	StartDate        string        `json:"start_date,omitempty" example:"2025-01-01"`
	EndDate          string        `json:"end_date,omitempty" example:"2025-06-30"`
	Days             int           `json:"days,omitempty" binding:"omitempty,min=1,max=3650" example:"200"`
	Seed             *int64        `json:"seed,omitempty" example:"7"`
	Sinks            []string      `json:"sinks,omitempty" example:"sqlite,clickhouse"`
	DailyNewUsers    *RangeRequest `json:"daily_new_users,omitempty"`
	EventsPerSession *RangeRequest `json:"events_per_session,omitempty"`
	MaxUsers         *int          `json:"max_users,omitempty" binding:"omitempty,min=0" example:"50000"`
	BatchThreshold   int           `json:"batch_threshold,omitempty" binding:"omitempty,min=1" example:"200000"`
}

// RangeRequest is an inclusive integer range
type RangeRequest struct {
	Min int `json:"min" binding:"min=0" example:"50"`
	Max int `json:"max" binding:"min=0" example:"300"`
}

// ListVersionsRequest is bound from the query string of GET /dataset/versions
type ListVersionsRequest struct {
	Sink  string `form:"sink" example:"sqlite"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=1000" example:"20"`
}
