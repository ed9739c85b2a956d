package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/domain/repository"
	"reelpilot/infrastructure/logger"
	"reelpilot/infrastructure/pubsub"
)

const (
	// Platform-documented metadata limits. Truncation happens here so platform
	// uploaders can assume pre-validated lengths.
	titleLimit   = 100
	captionLimit = 2200

	defaultUploadTimeout = 5 * time.Minute
)

// ErrVideoNotReady means the video is not in a publishable state (wrong status
// or missing file). Nothing was attempted on any platform.
var ErrVideoNotReady = errors.New("video is not ready for publishing")

// ProjectCleaner deletes a video's local render artifacts after publish.
type ProjectCleaner interface {
	Remove(projectDir string) error
}

// PublishNotifier pushes per-platform status updates to live subscribers.
type PublishNotifier func(userID, videoID, platform, status string, url, errMsg *string)

type IPublishUsecase interface {
	Publish(ctx context.Context, videoID, userID string, platforms []string) (*dto.PublishResult, error)
	VerifyPlatforms(ctx context.Context, userID string, platforms []string) (map[string]dto.PlatformStatus, error)
}

type publishUsecase struct {
	videoRepo  repository.IVideo
	seriesRepo repository.ISeries
	connRepo   repository.IPlatformConnection
	uploaders  map[string]repository.IPlatformUploader
	cleaner    ProjectCleaner
	events     pubsub.IEventPublisher // optional
	notify     PublishNotifier        // optional
	timeout    time.Duration
	now        func() time.Time
}

func NewPublishUsecase(
	videoRepo repository.IVideo,
	seriesRepo repository.ISeries,
	connRepo repository.IPlatformConnection,
	uploaders []repository.IPlatformUploader,
	cleaner ProjectCleaner,
) *publishUsecase {
	m := make(map[string]repository.IPlatformUploader, len(uploaders))
	for _, up := range uploaders {
		m[strings.ToLower(up.Platform())] = up
	}
	return &publishUsecase{
		videoRepo:  videoRepo,
		seriesRepo: seriesRepo,
		connRepo:   connRepo,
		uploaders:  m,
		cleaner:    cleaner,
		timeout:    defaultUploadTimeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithEvents enables lifecycle event publishing (fluent).
func (u *publishUsecase) WithEvents(events pubsub.IEventPublisher) *publishUsecase {
	u.events = events
	return u
}

// WithNotifier enables live status broadcasting (fluent).
func (u *publishUsecase) WithNotifier(notify PublishNotifier) *publishUsecase {
	u.notify = notify
	return u
}

// WithUploadTimeout overrides the per-platform upload timeout (fluent).
func (u *publishUsecase) WithUploadTimeout(d time.Duration) *publishUsecase {
	u.timeout = d
	return u
}

// Publish fans one ready video out to the requested platforms. Each platform is
// attempted independently: a missing connection, failed refresh, failed upload
// or timeout on one platform never aborts the others, and per-platform errors
// are captured in the result instead of being returned. Overall success means
// at least one platform succeeded; only then is the video marked published and
// its temp artifacts removed.
func (u *publishUsecase) Publish(ctx context.Context, videoID, userID string, platforms []string) (*dto.PublishResult, error) {
	lg := logger.GetLogger()
	if videoID == "" || userID == "" {
		return nil, errors.New("videoID and userID required")
	}
	if len(platforms) == 0 {
		return nil, errors.New("platforms required")
	}

	video, err := u.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}
	if video == nil {
		return nil, fmt.Errorf("%w: video %s not found", ErrVideoNotReady, videoID)
	}
	// Cheap validation before any network call.
	if video.Status != model.VideoStatusReady {
		return nil, fmt.Errorf("%w: status is %q", ErrVideoNotReady, video.Status)
	}
	if video.VideoPath == "" {
		return nil, fmt.Errorf("%w: no video file recorded", ErrVideoNotReady)
	}
	if _, statErr := os.Stat(video.VideoPath); statErr != nil {
		return nil, fmt.Errorf("%w: video file not found at %s", ErrVideoNotReady, video.VideoPath)
	}

	series, err := u.seriesRepo.GetByID(ctx, video.SeriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}

	title := video.Title
	if title == "" {
		title = fmt.Sprintf("%s - %s", series.Name, video.Topic)
	}
	title = truncateRunes(title, titleLimit)
	description := video.Description
	if description == "" {
		description = series.Description
	}
	caption := buildCaption(title, video.Tags)

	result := &dto.PublishResult{Results: make(map[string]dto.PlatformResult)}
	for _, platform := range platforms {
		platform = strings.ToLower(platform)
		result.Attempted = append(result.Attempted, platform)

		res := u.publishToPlatform(ctx, video, userID, platform, title, description, caption)
		result.Results[platform] = res
		if res.Success {
			result.Succeeded = append(result.Succeeded, platform)
			lg.WithFields(map[string]interface{}{"video_id": video.ID, "platform": platform, "url": res.URL}).Info("Platform upload successful")
		} else {
			result.Failed = append(result.Failed, platform)
			lg.WithFields(map[string]interface{}{"video_id": video.ID, "platform": platform, "error": res.Error}).Warn("Platform upload failed")
		}
		u.broadcast(userID, video.ID, platform, res)
	}

	if len(result.Succeeded) > 0 {
		result.Success = true
		if err := u.videoRepo.UpdateStatus(ctx, video.ID, model.VideoStatusPublished, nil); err != nil {
			lg.WithField("error", err).Error("failed to mark video published")
		}
		if err := u.seriesRepo.IncrementPublished(ctx, video.SeriesID); err != nil {
			lg.WithField("error", err).Warn("failed to bump series published counter")
		}
		u.cleanupTempFiles(ctx, video)
		u.emit(ctx, "video.published", video, result)
	}
	// Zero successes: status stays as-is; the caller decides whether to retry or
	// mark the video failed.
	return result, nil
}

func (u *publishUsecase) publishToPlatform(ctx context.Context, video *model.Video, userID, platform, title, description, caption string) dto.PlatformResult {
	lg := logger.GetLogger()

	uploader, ok := u.uploaders[platform]
	if !ok {
		return dto.PlatformResult{Error: "unsupported platform: " + platform, ErrorType: "UnsupportedPlatform"}
	}

	// A platform that already carries an id for this video succeeded in an
	// earlier call; re-publishing must never create a duplicate upload.
	if id, url, done := existingPlatformResult(video, platform); done {
		lg.WithFields(map[string]interface{}{"video_id": video.ID, "platform": platform}).Info("Platform already published, skipping re-upload")
		return dto.PlatformResult{Success: true, PlatformID: id, URL: url}
	}

	conn, err := u.connRepo.GetActive(ctx, userID, platform)
	if err != nil || conn == nil {
		return dto.PlatformResult{Error: platform + " not connected", ErrorType: "NotConnected"}
	}

	// Refresh is best-effort, not a gate: some platforms tolerate a token past
	// its soft-refresh point, so a failed refresh still attempts the upload.
	if conn.NeedsRefresh() || conn.IsExpired() {
		refreshed, rErr := uploader.RefreshToken(ctx, conn)
		if rErr != nil {
			lg.WithFields(map[string]interface{}{"platform": platform, "error": rErr}).Warn("Token refresh failed, attempting upload anyway")
		} else if refreshed {
			if uErr := u.connRepo.UpdateTokens(ctx, conn); uErr != nil {
				lg.WithField("error", uErr).Warn("failed to persist refreshed token")
			}
		}
	}

	req := &dto.UploadRequest{
		VideoPath:     video.VideoPath,
		ThumbnailPath: video.ThumbnailPath,
		Title:         title,
		Description:   description,
		Caption:       caption,
		Tags:          video.Tags,
		ScheduledAt:   video.ScheduledFor,
	}

	upCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	outcome, err := uploader.Upload(upCtx, conn, req)
	if err != nil {
		return dto.PlatformResult{Error: err.Error(), ErrorType: uploadErrorType(err)}
	}

	// Write this platform's columns immediately so partial progress is durable
	// even if a later platform in the loop fails hard.
	publishedAt := u.now()
	if err := u.videoRepo.SetPlatformResult(ctx, video.ID, platform, outcome.PlatformID, outcome.URL, publishedAt); err != nil {
		lg.WithFields(map[string]interface{}{"platform": platform, "error": err}).Error("failed to persist platform result")
	}
	if err := u.connRepo.TouchLastUsed(ctx, conn.ID); err != nil {
		lg.WithField("error", err).Warn("failed to touch connection last_used_at")
	}
	return dto.PlatformResult{Success: true, PlatformID: outcome.PlatformID, URL: outcome.URL}
}

// cleanupTempFiles removes the project's render artifacts and clears the local
// path columns. Failures are logged only; the published status is already
// committed and must not be undone by a cosmetic cleanup problem.
func (u *publishUsecase) cleanupTempFiles(ctx context.Context, video *model.Video) {
	lg := logger.GetLogger()
	dir := video.ProjectDir
	if dir == "" && video.VideoPath != "" {
		dir = filepath.Dir(video.VideoPath)
	}
	if dir == "" || u.cleaner == nil {
		return
	}
	if err := u.cleaner.Remove(dir); err != nil {
		lg.WithFields(map[string]interface{}{"video_id": video.ID, "dir": dir, "error": err}).Error("failed to delete temp files after publish")
		return
	}
	if err := u.videoRepo.ClearLocalPaths(ctx, video.ID); err != nil {
		lg.WithField("error", err).Error("failed to clear local paths after cleanup")
	}
}

func (u *publishUsecase) broadcast(userID, videoID, platform string, res dto.PlatformResult) {
	if u.notify == nil {
		return
	}
	status := "failed"
	if res.Success {
		status = "published"
	}
	var url, errMsg *string
	if res.URL != "" {
		v := res.URL
		url = &v
	}
	if res.Error != "" {
		v := res.Error
		errMsg = &v
	}
	u.notify(userID, videoID, platform, status, url, errMsg)
}

func (u *publishUsecase) emit(ctx context.Context, topic string, video *model.Video, result *dto.PublishResult) {
	if u.events == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"video_id":  video.ID,
		"series_id": video.SeriesID,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	})
	if err != nil {
		return
	}
	if _, err := u.events.Publish(ctx, topic, payload); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"topic": topic, "error": err}).Warn("failed to publish lifecycle event")
	}
}

// VerifyPlatforms reports connection status per requested platform.
func (u *publishUsecase) VerifyPlatforms(ctx context.Context, userID string, platforms []string) (map[string]dto.PlatformStatus, error) {
	status := make(map[string]dto.PlatformStatus, len(platforms))
	for _, platform := range platforms {
		platform = strings.ToLower(platform)
		conn, err := u.connRepo.GetActive(ctx, userID, platform)
		if err != nil || conn == nil {
			status[platform] = dto.PlatformStatus{}
			continue
		}
		status[platform] = dto.PlatformStatus{
			Connected:    true,
			Active:       conn.Status == model.ConnectionStatusActive,
			NeedsRefresh: conn.NeedsRefresh(),
		}
	}
	return status, nil
}

// buildCaption composes the short caption used by Instagram and TikTok: the
// (already truncated) title plus up to ten hashtags derived from the tags.
func buildCaption(title string, tags []string) string {
	caption := title
	if len(tags) > 0 {
		n := len(tags)
		if n > 10 {
			n = 10
		}
		hashtags := make([]string, 0, n)
		for _, tag := range tags[:n] {
			tag = strings.ReplaceAll(tag, " ", "")
			if tag != "" {
				hashtags = append(hashtags, "#"+tag)
			}
		}
		if len(hashtags) > 0 {
			caption = caption + "\n\n" + strings.Join(hashtags, " ")
		}
	}
	return truncateRunes(caption, captionLimit)
}

func existingPlatformResult(video *model.Video, platform string) (string, string, bool) {
	var id, url *string
	switch platform {
	case model.PlatformYouTube:
		id, url = video.YouTubeID, video.YouTubeURL
	case model.PlatformTikTok:
		id, url = video.TikTokID, video.TikTokURL
	case model.PlatformInstagram:
		id, url = video.InstagramID, video.InstagramURL
	}
	if id == nil || *id == "" {
		return "", "", false
	}
	u := ""
	if url != nil {
		u = *url
	}
	return *id, u, true
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func uploadErrorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Timeout"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	default:
		return "UploadFailed"
	}
}
