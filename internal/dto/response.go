package dto

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string   `json:"error" example:"validation_error"`
	Message string   `json:"message,omitempty" example:"daily_new_users: min 10 > max 5"`
	Details []string `json:"details,omitempty"`
}

// CreateGenerationResponse is returned once a run has been scheduled
type CreateGenerationResponse struct {
	JobID  string `json:"job_id" example:"3f0c7d2e-8a61-4c7e-9d55-1b2a3c4d5e6f"`
	Status string `json:"status" example:"running"`
}

// ProgressResponse is the pollable progress record of the latest run
type ProgressResponse struct {
	Status   string  `json:"status" example:"running" enums:"idle,running,completed,error"`
	Progress float64 `json:"progress" example:"42.5"`
	JobID    string  `json:"job_id,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// DatasetVersionResponse is one lineage record
type DatasetVersionResponse struct {
	VersionID     int64     `json:"version_id" example:"3"`
	CreatedAt     time.Time `json:"created_at"`
	GeneratorType string    `json:"generator_type" example:"advanced"`
	StartDate     string    `json:"start_date" example:"2025-01-01"`
	EndDate       string    `json:"end_date" example:"2025-06-30"`
	NUsers        int64     `json:"n_users" example:"48211"`
	NEvents       int64     `json:"n_events" example:"12873344"`
}

// ListVersionsResponse lists lineage records newest first
type ListVersionsResponse struct {
	Sink     string                   `json:"sink" example:"sqlite"`
	Versions []DatasetVersionResponse `json:"versions"`
}

// RunNotification is published when a run reaches a terminal state
type RunNotification struct {
	JobID      string           `json:"job_id"`
	Status     string           `json:"status"`
	Versions   map[string]int64 `json:"versions,omitempty"`
	Events     int64            `json:"events"`
	Users      int64            `json:"users"`
	Error      string           `json:"error,omitempty"`
	FinishedAt time.Time        `json:"finished_at"`
}
