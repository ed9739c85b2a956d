package dto

// SeriesCreateRequest creates a new content series.
type SeriesCreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Niche         string   `json:"niche" binding:"required"`
	NicheFormat   string   `json:"nicheFormat"`
	VisualStyle   string   `json:"visualStyle"`
	VoiceID       string   `json:"voiceId"`
	CaptionStyle  string   `json:"captionStyle"`
	VideoDuration int      `json:"videoDuration"`
	PostingTimes  []string `json:"postingTimes"`
	Timezone      string   `json:"timezone"`
	Platforms     []string `json:"platforms"`
}

// SeriesUpdateRequest patches schedule or status fields on a series.
type SeriesUpdateRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	PostingTimes *[]string `json:"postingTimes"`
	Timezone     *string   `json:"timezone"`
	Platforms    *[]string `json:"platforms"`
	Status       *string   `json:"status"`
}
