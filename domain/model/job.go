package model

import "time"

// Job tracks one background operation on a video (generation, publish).
type Job struct {
	ID           string    `json:"id"`
	VideoID      string    `json:"video_id"`
	JobType      string    `json:"job_type"` // scheduled_video_generation | manual_video_generation
	Status       string    `json:"status"`   // pending | running | completed | failed
	Stage        string    `json:"stage,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"

	JobTypeScheduledGeneration = "scheduled_video_generation"
	JobTypeManualGeneration    = "manual_video_generation"
)
