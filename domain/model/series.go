package model

import "time"

// PlanTier is a subscription plan's posting cadence class.
type PlanTier string

const (
	TierFree   PlanTier = "free"
	TierLaunch PlanTier = "launch" // every ~2 days
	TierGrow   PlanTier = "grow"   // daily
	TierScale  PlanTier = "scale"  // twice daily
)

// Series is a content series configuration. Each series generates videos on a
// recurring schedule with consistent content settings.
type Series struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Niche        string `json:"niche"`
	NicheFormat  string `json:"niche_format"`
	VisualStyle  string `json:"visual_style"`
	VoiceID      string `json:"voice_id"`
	CaptionStyle string `json:"caption_style"`
	VideoDuration int   `json:"video_duration"` // seconds: 30, 45, 60

	// PostingTimes are local HH:MM strings interpreted in Timezone.
	PostingTimes []string `json:"posting_times"`
	Timezone     string   `json:"timezone"`
	Platforms    []string `json:"platforms"`

	Status string `json:"status"` // active | paused | deleted

	VideosGenerated int `json:"videos_generated"`
	VideosPublished int `json:"videos_published"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastVideoAt *time.Time `json:"last_video_at,omitempty"`
	NextVideoAt *time.Time `json:"next_video_at,omitempty"`
}

const (
	SeriesStatusActive  = "active"
	SeriesStatusPaused  = "paused"
	SeriesStatusDeleted = "deleted"
)
