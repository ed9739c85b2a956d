package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/infrastructure/logger"
)

// Client dispatches generation jobs to the external render service. The
// service produces the script, voiceover and assembled video on its own
// machines and reports completion through the render callback endpoint.
type Client struct {
	host   string
	client *http.Client
}

func NewClient(host string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		host:   strings.TrimRight(host, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type generateResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

// Generate submits the job and returns once the render service accepts it.
func (c *Client) Generate(ctx context.Context, job *model.Job, video *model.Video, series *model.Series) error {
	if c.host == "" {
		return fmt.Errorf("render host not configured")
	}

	payload := dto.RenderDispatchRequest{
		JobID:    job.ID,
		VideoID:  video.ID,
		SeriesID: series.ID,
		UserID:   series.UserID,

		Niche:         series.Niche,
		NicheFormat:   series.NicheFormat,
		VisualStyle:   series.VisualStyle,
		VoiceID:       series.VoiceID,
		CaptionStyle:  series.CaptionStyle,
		VideoDuration: series.VideoDuration,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/render", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("render service rejected job: %d %s", resp.StatusCode, string(data))
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err == nil && !out.Accepted && out.Message != "" {
		return fmt.Errorf("render service declined job: %s", out.Message)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"job_id":   job.ID,
		"video_id": video.ID,
	}).Info("Render job dispatched")
	return nil
}
