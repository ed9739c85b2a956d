package dto

// RenderCompleteRequest is posted by the render service when generation finishes.
type RenderCompleteRequest struct {
	Success         bool     `json:"success"`
	ProjectDir      string   `json:"projectDir"`
	VideoPath       string   `json:"videoPath"`
	ThumbnailPath   string   `json:"thumbnailPath"`
	ScriptPath      string   `json:"scriptPath"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	DurationSeconds float64  `json:"durationSeconds"`
	Error           string   `json:"error"`
}

// RenderDispatchRequest is sent to the render service to start generation.
type RenderDispatchRequest struct {
	JobID    string `json:"jobId"`
	VideoID  string `json:"videoId"`
	SeriesID string `json:"seriesId"`
	UserID   string `json:"userId"`

	Niche         string `json:"niche"`
	NicheFormat   string `json:"nicheFormat"`
	VisualStyle   string `json:"visualStyle"`
	VoiceID       string `json:"voiceId"`
	CaptionStyle  string `json:"captionStyle"`
	VideoDuration int    `json:"videoDuration"`
}
