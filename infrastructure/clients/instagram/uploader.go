package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/infrastructure/configuration"
	"reelpilot/infrastructure/logger"
)

const (
	graphBase = "https://graph.facebook.com/v19.0"
	dialogURL = "https://www.facebook.com/v19.0/dialog/oauth"

	containerPollInterval = 5 * time.Second
	containerPollLimit    = 30
)

// Uploader publishes Reels through the Instagram Graph API. The API ingests by
// URL, so the render output must be reachable under the app's public base URL.
type Uploader struct {
	cfg           *configuration.PlatformOAuthConfig
	publicBaseURL string
	workDir       string
	client        *http.Client
}

func NewUploader(cfg *configuration.PlatformOAuthConfig, publicBaseURL, workDir string) *Uploader {
	return &Uploader{
		cfg:           cfg,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		workDir:       workDir,
		client:        &http.Client{Timeout: 60 * time.Second},
	}
}

func (u *Uploader) Platform() string { return model.PlatformInstagram }

type dialogParams struct {
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	State        string `url:"state"`
	Scope        string `url:"scope"`
	ResponseType string `url:"response_type"`
}

func (u *Uploader) AuthCodeURL(state string) string {
	scopes := u.cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"instagram_basic", "instagram_content_publish", "pages_show_list"}
	}
	v, _ := query.Values(dialogParams{
		ClientID:     u.cfg.ClientID,
		RedirectURI:  u.cfg.RedirectURL,
		State:        state,
		Scope:        strings.Join(scopes, ","),
		ResponseType: "code",
	})
	return dialogURL + "?" + v.Encode()
}

type tokenParams struct {
	ClientID        string `url:"client_id"`
	ClientSecret    string `url:"client_secret"`
	RedirectURI     string `url:"redirect_uri,omitempty"`
	Code            string `url:"code,omitempty"`
	GrantType       string `url:"grant_type,omitempty"`
	FBExchangeToken string `url:"fb_exchange_token,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Exchange trades the callback code for a long-lived token and resolves the
// Instagram business account behind the user's page.
func (u *Uploader) Exchange(ctx context.Context, code string) (*model.PlatformConnection, error) {
	short, err := u.fetchToken(ctx, tokenParams{
		ClientID:     u.cfg.ClientID,
		ClientSecret: u.cfg.ClientSecret,
		RedirectURI:  u.cfg.RedirectURL,
		Code:         code,
	})
	if err != nil {
		return nil, err
	}
	long, err := u.fetchToken(ctx, tokenParams{
		ClientID:        u.cfg.ClientID,
		ClientSecret:    u.cfg.ClientSecret,
		GrantType:       "fb_exchange_token",
		FBExchangeToken: short.AccessToken,
	})
	if err != nil {
		// Long-lived exchange can fail for unreviewed apps; the short token
		// still works for ~an hour.
		logger.GetLogger().WithField("error", err).Warn("Long-lived token exchange failed, keeping short-lived token")
		long = short
	}

	conn := &model.PlatformConnection{
		Platform:    model.PlatformInstagram,
		AccessToken: long.AccessToken,
		TokenType:   "Bearer",
		Status:      model.ConnectionStatusActive,
	}
	if long.ExpiresIn > 0 {
		exp := time.Now().UTC().Add(time.Duration(long.ExpiresIn) * time.Second)
		conn.AccessTokenExpiresAt = &exp
	}

	igUserID, igUsername, err := u.resolveBusinessAccount(ctx, long.AccessToken)
	if err != nil {
		return nil, err
	}
	conn.PlatformUserID = &igUserID
	if igUsername != "" {
		conn.PlatformUsername = &igUsername
	}
	return conn, nil
}

// RefreshToken re-exchanges the current long-lived token for a fresh one.
func (u *Uploader) RefreshToken(ctx context.Context, conn *model.PlatformConnection) (bool, error) {
	fresh, err := u.fetchToken(ctx, tokenParams{
		ClientID:        u.cfg.ClientID,
		ClientSecret:    u.cfg.ClientSecret,
		GrantType:       "fb_exchange_token",
		FBExchangeToken: conn.AccessToken,
	})
	if err != nil {
		return false, err
	}
	conn.AccessToken = fresh.AccessToken
	if fresh.ExpiresIn > 0 {
		exp := time.Now().UTC().Add(time.Duration(fresh.ExpiresIn) * time.Second)
		conn.AccessTokenExpiresAt = &exp
	}
	return true, nil
}

func (u *Uploader) fetchToken(ctx context.Context, params tokenParams) (*tokenResponse, error) {
	v, err := query.Values(params)
	if err != nil {
		return nil, err
	}
	var tok tokenResponse
	if err := u.getJSON(ctx, graphBase+"/oauth/access_token?"+v.Encode(), &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("instagram token exchange returned no token")
	}
	return &tok, nil
}

func (u *Uploader) resolveBusinessAccount(ctx context.Context, accessToken string) (string, string, error) {
	var pages struct {
		Data []struct {
			InstagramBusinessAccount *struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			} `json:"instagram_business_account"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/me/accounts?fields=instagram_business_account{id,username}&access_token=%s",
		graphBase, url.QueryEscape(accessToken))
	if err := u.getJSON(ctx, endpoint, &pages); err != nil {
		return "", "", err
	}
	for _, page := range pages.Data {
		if page.InstagramBusinessAccount != nil {
			return page.InstagramBusinessAccount.ID, page.InstagramBusinessAccount.Username, nil
		}
	}
	return "", "", fmt.Errorf("no instagram business account linked to any page")
}

type containerParams struct {
	MediaType   string `url:"media_type"`
	VideoURL    string `url:"video_url"`
	Caption     string `url:"caption"`
	AccessToken string `url:"access_token"`
}

// Upload creates a Reels container from the publicly served render output,
// waits for ingestion, then publishes it.
func (u *Uploader) Upload(ctx context.Context, conn *model.PlatformConnection, req *dto.UploadRequest) (*dto.UploadOutcome, error) {
	if conn.PlatformUserID == nil || *conn.PlatformUserID == "" {
		return nil, fmt.Errorf("connection has no instagram business account")
	}
	igUserID := *conn.PlatformUserID

	videoURL, err := u.publicURL(req.VideoPath)
	if err != nil {
		return nil, err
	}

	params, err := query.Values(containerParams{
		MediaType:   "REELS",
		VideoURL:    videoURL,
		Caption:     req.Caption,
		AccessToken: conn.AccessToken,
	})
	if err != nil {
		return nil, err
	}
	var container struct {
		ID string `json:"id"`
	}
	if err := u.postJSON(ctx, fmt.Sprintf("%s/%s/media?%s", graphBase, igUserID, params.Encode()), &container); err != nil {
		return nil, err
	}
	if container.ID == "" {
		return nil, fmt.Errorf("instagram container creation returned no id")
	}

	if err := u.waitForContainer(ctx, container.ID, conn.AccessToken); err != nil {
		return nil, err
	}

	var published struct {
		ID string `json:"id"`
	}
	publishEndpoint := fmt.Sprintf("%s/%s/media_publish?creation_id=%s&access_token=%s",
		graphBase, igUserID, container.ID, url.QueryEscape(conn.AccessToken))
	if err := u.postJSON(ctx, publishEndpoint, &published); err != nil {
		return nil, err
	}
	if published.ID == "" {
		return nil, fmt.Errorf("instagram publish returned no media id")
	}

	outcome := &dto.UploadOutcome{PlatformID: published.ID}
	var media struct {
		Permalink string `json:"permalink"`
	}
	permalinkEndpoint := fmt.Sprintf("%s/%s?fields=permalink&access_token=%s",
		graphBase, published.ID, url.QueryEscape(conn.AccessToken))
	if err := u.getJSON(ctx, permalinkEndpoint, &media); err == nil {
		outcome.URL = media.Permalink
	}
	return outcome, nil
}

// publicURL maps a path inside the render work dir onto the media route.
func (u *Uploader) publicURL(localPath string) (string, error) {
	if u.publicBaseURL == "" {
		return "", fmt.Errorf("public base URL not configured; instagram requires URL ingestion")
	}
	rel, err := filepath.Rel(u.workDir, localPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("video path %s is outside the served work dir", localPath)
	}
	return u.publicBaseURL + "/media/" + filepath.ToSlash(rel), nil
}

func (u *Uploader) waitForContainer(ctx context.Context, containerID, accessToken string) error {
	endpoint := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s", graphBase, containerID, url.QueryEscape(accessToken))
	for i := 0; i < containerPollLimit; i++ {
		var status struct {
			StatusCode string `json:"status_code"`
		}
		if err := u.getJSON(ctx, endpoint, &status); err != nil {
			return err
		}
		switch status.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR":
			return fmt.Errorf("instagram container processing failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(containerPollInterval):
		}
	}
	return fmt.Errorf("instagram container timed out waiting for processing")
}

func (u *Uploader) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return u.doJSON(req, out)
}

func (u *Uploader) postJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	return u.doJSON(req, out)
}

func (u *Uploader) doJSON(req *http.Request, out interface{}) error {
	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("instagram request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("instagram api error: %d %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode instagram response: %w", err)
	}
	return nil
}
