package model

import "time"

// Video is one generated video. Tracks generation status, local file paths and
// per-platform publishing results.
type Video struct {
	ID       string `json:"id"`
	SeriesID string `json:"series_id"`

	Topic       string   `json:"topic,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Local render artifacts; cleared after a successful publish.
	ProjectDir    string `json:"project_dir,omitempty"`
	VideoPath     string `json:"video_path,omitempty"`
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
	ScriptPath    string `json:"script_path,omitempty"`

	DurationSeconds float64 `json:"duration_seconds,omitempty"`

	Status       string  `json:"status"` // pending | generating | ready | published | failed
	Progress     int     `json:"progress"`
	CurrentStage string  `json:"current_stage,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`

	YouTubeID          *string    `json:"youtube_id,omitempty"`
	YouTubeURL         *string    `json:"youtube_url,omitempty"`
	YouTubePublishedAt *time.Time `json:"youtube_published_at,omitempty"`

	TikTokID          *string    `json:"tiktok_id,omitempty"`
	TikTokURL         *string    `json:"tiktok_url,omitempty"`
	TikTokPublishedAt *time.Time `json:"tiktok_published_at,omitempty"`

	InstagramID          *string    `json:"instagram_id,omitempty"`
	InstagramURL         *string    `json:"instagram_url,omitempty"`
	InstagramPublishedAt *time.Time `json:"instagram_published_at,omitempty"`

	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	VideoStatusPending    = "pending"
	VideoStatusGenerating = "generating"
	VideoStatusReady      = "ready"
	VideoStatusPublished  = "published"
	VideoStatusFailed     = "failed"
)
