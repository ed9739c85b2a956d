package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/infrastructure/configuration"
	"reelpilot/infrastructure/logger"
)

const (
	apiBase      = "https://open.tiktokapis.com/v2"
	authorizeURL = "https://www.tiktok.com/v2/auth/authorize/"

	statusPollInterval = 3 * time.Second
	statusPollLimit    = 40
)

// Uploader publishes videos through the TikTok Content Posting API using the
// direct-post file upload flow.
type Uploader struct {
	cfg    *configuration.PlatformOAuthConfig
	client *http.Client
}

func NewUploader(cfg *configuration.PlatformOAuthConfig) *Uploader {
	return &Uploader{cfg: cfg, client: &http.Client{Timeout: 60 * time.Second}}
}

func (u *Uploader) Platform() string { return model.PlatformTikTok }

type authorizeParams struct {
	ClientKey    string `url:"client_key"`
	Scope        string `url:"scope"`
	ResponseType string `url:"response_type"`
	RedirectURI  string `url:"redirect_uri"`
	State        string `url:"state"`
}

func (u *Uploader) AuthCodeURL(state string) string {
	scopes := u.cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"user.info.basic", "video.publish"}
	}
	v, _ := query.Values(authorizeParams{
		ClientKey:    u.cfg.ClientID,
		Scope:        strings.Join(scopes, ","),
		ResponseType: "code",
		RedirectURI:  u.cfg.RedirectURL,
		State:        state,
	})
	return authorizeURL + "?" + v.Encode()
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	OpenID           string `json:"open_id"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (u *Uploader) Exchange(ctx context.Context, code string) (*model.PlatformConnection, error) {
	form := url.Values{}
	form.Set("client_key", u.cfg.ClientID)
	form.Set("client_secret", u.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", u.cfg.RedirectURL)
	return u.tokenRequest(ctx, form)
}

func (u *Uploader) RefreshToken(ctx context.Context, conn *model.PlatformConnection) (bool, error) {
	if conn.RefreshToken == nil || *conn.RefreshToken == "" {
		return false, nil
	}
	form := url.Values{}
	form.Set("client_key", u.cfg.ClientID)
	form.Set("client_secret", u.cfg.ClientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", *conn.RefreshToken)

	fresh, err := u.tokenRequest(ctx, form)
	if err != nil {
		return false, err
	}
	conn.AccessToken = fresh.AccessToken
	conn.RefreshToken = fresh.RefreshToken
	conn.AccessTokenExpiresAt = fresh.AccessTokenExpiresAt
	conn.RefreshTokenExpiresAt = fresh.RefreshTokenExpiresAt
	return true, nil
}

func (u *Uploader) tokenRequest(ctx context.Context, form url.Values) (*model.PlatformConnection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"/oauth/token/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.Error != "" || tok.AccessToken == "" {
		return nil, fmt.Errorf("tiktok token error: %s %s", tok.Error, tok.ErrorDescription)
	}

	now := time.Now().UTC()
	conn := &model.PlatformConnection{
		Platform:    model.PlatformTikTok,
		AccessToken: tok.AccessToken,
		TokenType:   "Bearer",
		Status:      model.ConnectionStatusActive,
	}
	if tok.RefreshToken != "" {
		rt := tok.RefreshToken
		conn.RefreshToken = &rt
	}
	if tok.OpenID != "" {
		id := tok.OpenID
		conn.PlatformUserID = &id
	}
	if tok.ExpiresIn > 0 {
		exp := now.Add(time.Duration(tok.ExpiresIn) * time.Second)
		conn.AccessTokenExpiresAt = &exp
	}
	if tok.RefreshExpiresIn > 0 {
		exp := now.Add(time.Duration(tok.RefreshExpiresIn) * time.Second)
		conn.RefreshTokenExpiresAt = &exp
	}
	return conn, nil
}

type initRequest struct {
	PostInfo   postInfo   `json:"post_info"`
	SourceInfo sourceInfo `json:"source_info"`
}

type postInfo struct {
	Title                 string `json:"title"`
	PrivacyLevel          string `json:"privacy_level"`
	DisableDuet           bool   `json:"disable_duet"`
	DisableComment        bool   `json:"disable_comment"`
	DisableStitch         bool   `json:"disable_stitch"`
	VideoCoverTimestampMs int    `json:"video_cover_timestamp_ms"`
}

type sourceInfo struct {
	Source          string `json:"source"`
	VideoSize       int64  `json:"video_size"`
	ChunkSize       int64  `json:"chunk_size"`
	TotalChunkCount int    `json:"total_chunk_count"`
}

type initResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
		UploadURL string `json:"upload_url"`
	} `json:"data"`
	Error apiError `json:"error"`
}

type statusResponse struct {
	Data struct {
		Status         string   `json:"status"`
		FailReason     string   `json:"fail_reason"`
		PublicPostIDs  []int64  `json:"publicaly_available_post_id"`
		UploadedBytes  int64    `json:"uploaded_bytes"`
		DownloadedURLs []string `json:"downloaded_urls"`
	} `json:"data"`
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e apiError) ok() bool { return e.Code == "" || e.Code == "ok" }

// Upload runs the three-step direct post: init, file PUT, then status polling
// until TikTok finishes processing.
func (u *Uploader) Upload(ctx context.Context, conn *model.PlatformConnection, req *dto.UploadRequest) (*dto.UploadOutcome, error) {
	info, err := os.Stat(req.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat video file: %w", err)
	}
	size := info.Size()

	initReq := initRequest{
		PostInfo: postInfo{
			Title:        req.Caption,
			PrivacyLevel: "PUBLIC_TO_EVERYONE",
		},
		SourceInfo: sourceInfo{
			Source:          "FILE_UPLOAD",
			VideoSize:       size,
			ChunkSize:       size, // short videos go up in a single chunk
			TotalChunkCount: 1,
		},
	}
	var initResp initResponse
	if err := u.postJSON(ctx, conn.AccessToken, "/post/publish/video/init/", initReq, &initResp); err != nil {
		return nil, err
	}
	if !initResp.Error.ok() || initResp.Data.UploadURL == "" {
		return nil, fmt.Errorf("tiktok init failed: %s %s", initResp.Error.Code, initResp.Error.Message)
	}

	if err := u.putFile(ctx, initResp.Data.UploadURL, req.VideoPath, size); err != nil {
		return nil, err
	}

	postID, err := u.waitForPublish(ctx, conn.AccessToken, initResp.Data.PublishID)
	if err != nil {
		return nil, err
	}

	outcome := &dto.UploadOutcome{PlatformID: postID}
	if conn.PlatformUsername != nil && postID != "" {
		outcome.URL = fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", *conn.PlatformUsername, postID)
	}
	return outcome, nil
}

func (u *Uploader) postJSON(ctx context.Context, accessToken, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("tiktok request failed: %w", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode tiktok response: %w", err)
	}
	return nil
}

func (u *Uploader) putFile(ctx context.Context, uploadURL, path string, size int64) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "video/mp4")
	req.Header.Set("Content-Range", fmt.Sprintf("bytes 0-%d/%d", size-1, size))

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("tiktok upload failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tiktok upload rejected: %d %s", resp.StatusCode, string(body))
	}
	return nil
}

func (u *Uploader) waitForPublish(ctx context.Context, accessToken, publishID string) (string, error) {
	lg := logger.GetLogger()
	payload := map[string]string{"publish_id": publishID}
	for i := 0; i < statusPollLimit; i++ {
		var status statusResponse
		if err := u.postJSON(ctx, accessToken, "/post/publish/status/fetch/", payload, &status); err != nil {
			return "", err
		}
		if !status.Error.ok() {
			return "", fmt.Errorf("tiktok status failed: %s %s", status.Error.Code, status.Error.Message)
		}
		switch status.Data.Status {
		case "PUBLISH_COMPLETE":
			if len(status.Data.PublicPostIDs) > 0 {
				return fmt.Sprintf("%d", status.Data.PublicPostIDs[0]), nil
			}
			return publishID, nil
		case "FAILED":
			return "", fmt.Errorf("tiktok publish failed: %s", status.Data.FailReason)
		}
		lg.WithFields(map[string]interface{}{"publish_id": publishID, "status": status.Data.Status}).Debug("TikTok publish in progress")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(statusPollInterval):
		}
	}
	return "", fmt.Errorf("tiktok publish timed out waiting for completion")
}
