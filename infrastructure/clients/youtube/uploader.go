package youtube

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/infrastructure/configuration"
	"reelpilot/infrastructure/logger"
)

// Shorts are regular uploads; YouTube classifies by aspect ratio and length.
const videoCategoryPeople = "22"

// Uploader publishes videos to YouTube over the Data API v3 and drives the
// OAuth connect flow.
type Uploader struct {
	oauthConfig *oauth2.Config
}

func NewUploader(cfg *configuration.PlatformOAuthConfig) *Uploader {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{youtube.YoutubeScope, youtube.YoutubeUploadScope, youtube.YoutubeForceSslScope}
	}
	return &Uploader{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

func (u *Uploader) Platform() string { return model.PlatformYouTube }

func (u *Uploader) service(ctx context.Context, conn *model.PlatformConnection) (*youtube.Service, error) {
	token := &oauth2.Token{
		AccessToken: conn.AccessToken,
		TokenType:   "Bearer",
	}
	if conn.RefreshToken != nil {
		token.RefreshToken = *conn.RefreshToken
	}
	if conn.AccessTokenExpiresAt != nil {
		token.Expiry = *conn.AccessTokenExpiresAt
	}
	httpClient := u.oauthConfig.Client(ctx, token)
	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return service, nil
}

func (u *Uploader) Upload(ctx context.Context, conn *model.PlatformConnection, req *dto.UploadRequest) (*dto.UploadOutcome, error) {
	service, err := u.service(ctx, conn)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(req.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryId:  videoCategoryPeople,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "public",
			SelfDeclaredMadeForKids: false,
		},
	}
	// Future-dated slots upload as private with a publish-at; YouTube flips
	// them public at the scheduled instant.
	if req.ScheduledAt != nil && req.ScheduledAt.After(time.Now().UTC()) {
		video.Status.PrivacyStatus = "private"
		video.Status.PublishAt = req.ScheduledAt.UTC().Format(time.RFC3339)
	}

	response, err := service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(file).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}

	// Thumbnail is cosmetic; a failure here must not fail the upload.
	if req.ThumbnailPath != "" {
		if thumb, tErr := os.Open(req.ThumbnailPath); tErr == nil {
			if _, sErr := service.Thumbnails.Set(response.Id).Media(thumb).Context(ctx).Do(); sErr != nil {
				logger.GetLogger().WithFields(map[string]interface{}{"video_id": response.Id, "error": sErr}).Warn("Thumbnail upload failed")
			}
			_ = thumb.Close()
		}
	}

	return &dto.UploadOutcome{
		PlatformID: response.Id,
		URL:        fmt.Sprintf("https://youtube.com/shorts/%s", response.Id),
	}, nil
}

func (u *Uploader) RefreshToken(ctx context.Context, conn *model.PlatformConnection) (bool, error) {
	if conn.RefreshToken == nil || *conn.RefreshToken == "" {
		return false, nil
	}
	stale := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: *conn.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute), // force refresh
	}
	fresh, err := u.oauthConfig.TokenSource(ctx, stale).Token()
	if err != nil {
		return false, fmt.Errorf("failed to refresh token: %w", err)
	}
	conn.AccessToken = fresh.AccessToken
	if fresh.RefreshToken != "" {
		rt := fresh.RefreshToken
		conn.RefreshToken = &rt
	}
	exp := fresh.Expiry.UTC()
	conn.AccessTokenExpiresAt = &exp
	return true, nil
}

func (u *Uploader) AuthCodeURL(state string) string {
	return u.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the callback code for tokens and resolves the channel the
// user granted access to.
func (u *Uploader) Exchange(ctx context.Context, code string) (*model.PlatformConnection, error) {
	token, err := u.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	conn := &model.PlatformConnection{
		Platform:    model.PlatformYouTube,
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
		Status:      model.ConnectionStatusActive,
	}
	if token.RefreshToken != "" {
		rt := token.RefreshToken
		conn.RefreshToken = &rt
	}
	if !token.Expiry.IsZero() {
		exp := token.Expiry.UTC()
		conn.AccessTokenExpiresAt = &exp
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(u.oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	channels, err := service.Channels.List([]string{"snippet"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if len(channels.Items) > 0 {
		ch := channels.Items[0]
		conn.ChannelID = &ch.Id
		conn.ChannelName = &ch.Snippet.Title
	}
	return conn, nil
}
