package dto

import "time"

// UploadRequest carries pre-validated metadata into a platform uploader. The
// orchestrator truncates titles and captions to platform limits before dispatch, so
// uploaders can assume lengths are in range.
type UploadRequest struct {
	VideoPath     string
	ThumbnailPath string
	Title         string
	Description   string
	Caption       string
	Tags          []string
	ScheduledAt   *time.Time
}

// UploadOutcome is the success payload returned by a platform uploader.
type UploadOutcome struct {
	PlatformID string `json:"platform_id"`
	URL        string `json:"url"`
}

// PlatformResult is the per-platform slice of a publish attempt.
type PlatformResult struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	ErrorType  string `json:"error_type,omitempty"`
	PlatformID string `json:"platform_id,omitempty"`
	URL        string `json:"url,omitempty"`
}

// PublishResult aggregates one publish call across all requested platforms.
// Success is true when at least one platform succeeded.
type PublishResult struct {
	Success   bool                      `json:"success"`
	Attempted []string                  `json:"platforms_attempted"`
	Succeeded []string                  `json:"platforms_succeeded"`
	Failed    []string                  `json:"platforms_failed"`
	Results   map[string]PlatformResult `json:"results"`
}

// PublishRequest is the manual publish trigger payload.
type PublishRequest struct {
	Platforms []string `json:"platforms"`
}

// PlatformStatus describes one stored connection for status endpoints.
type PlatformStatus struct {
	Connected    bool `json:"connected"`
	Active       bool `json:"active"`
	NeedsRefresh bool `json:"needs_refresh"`
}
