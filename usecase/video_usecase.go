package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/domain/repository"
	"reelpilot/infrastructure/logger"
	"reelpilot/infrastructure/pubsub"
)

var ErrVideoNotFound = errors.New("video not found")

// VideoNotifier pushes generation lifecycle updates to live subscribers.
type VideoNotifier func(userID, videoID, status string, errMsg *string)

type IVideoUsecase interface {
	Get(ctx context.Context, userID, videoID string) (*model.Video, error)
	ListBySeries(ctx context.Context, userID, seriesID string, limit, offset int) ([]*model.Video, error)
	// HandleRenderComplete ingests the render service callback: marks the video
	// ready (or failed) and, for scheduled videos, hands it straight to the
	// publish pipeline.
	HandleRenderComplete(ctx context.Context, videoID, jobID string, req dto.RenderCompleteRequest) error
}

type videoUsecase struct {
	videoRepo  repository.IVideo
	seriesRepo repository.ISeries
	jobRepo    repository.IJob
	publisher  IPublishUsecase        // optional: auto-publish after scheduled generation
	events     pubsub.IEventPublisher // optional
	notify     VideoNotifier          // optional
}

func NewVideoUsecase(videoRepo repository.IVideo, seriesRepo repository.ISeries, jobRepo repository.IJob) *videoUsecase {
	return &videoUsecase{videoRepo: videoRepo, seriesRepo: seriesRepo, jobRepo: jobRepo}
}

// WithPublisher enables auto-publishing of scheduled videos once ready (fluent).
func (u *videoUsecase) WithPublisher(publisher IPublishUsecase) *videoUsecase {
	u.publisher = publisher
	return u
}

// WithEvents enables lifecycle event publishing (fluent).
func (u *videoUsecase) WithEvents(events pubsub.IEventPublisher) *videoUsecase {
	u.events = events
	return u
}

// WithNotifier enables live status broadcasting (fluent).
func (u *videoUsecase) WithNotifier(notify VideoNotifier) *videoUsecase {
	u.notify = notify
	return u
}

func (u *videoUsecase) Get(ctx context.Context, userID, videoID string) (*model.Video, error) {
	video, err := u.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	if _, err := u.ownedSeries(ctx, userID, video.SeriesID); err != nil {
		return nil, err
	}
	return video, nil
}

func (u *videoUsecase) ListBySeries(ctx context.Context, userID, seriesID string, limit, offset int) ([]*model.Video, error) {
	if _, err := u.ownedSeries(ctx, userID, seriesID); err != nil {
		return nil, err
	}
	return u.videoRepo.ListBySeries(ctx, seriesID, limit, offset)
}

func (u *videoUsecase) ownedSeries(ctx context.Context, userID, seriesID string) (*model.Series, error) {
	series, err := u.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if series == nil {
		return nil, ErrSeriesNotFound
	}
	if series.UserID != userID {
		return nil, ErrNotSeriesOwner
	}
	return series, nil
}

func (u *videoUsecase) HandleRenderComplete(ctx context.Context, videoID, jobID string, req dto.RenderCompleteRequest) error {
	lg := logger.GetLogger()
	video, err := u.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video == nil {
		return ErrVideoNotFound
	}
	series, err := u.seriesRepo.GetByID(ctx, video.SeriesID)
	if err != nil {
		return err
	}
	if series == nil {
		return ErrSeriesNotFound
	}

	if !req.Success {
		errMsg := req.Error
		if errMsg == "" {
			errMsg = "render failed"
		}
		if jobID != "" {
			if jErr := u.jobRepo.MarkResult(ctx, jobID, false, &errMsg); jErr != nil {
				lg.WithField("error", jErr).Warn("failed to mark job failed")
			}
		}
		if sErr := u.videoRepo.UpdateStatus(ctx, video.ID, model.VideoStatusFailed, &errMsg); sErr != nil {
			return sErr
		}
		u.broadcast(series.UserID, video.ID, model.VideoStatusFailed, &errMsg)
		lg.WithFields(map[string]interface{}{"video_id": video.ID, "error": errMsg}).Warn("Render failed")
		return nil
	}

	if req.VideoPath == "" {
		return fmt.Errorf("render reported success without a video path")
	}

	video.ProjectDir = req.ProjectDir
	video.VideoPath = req.VideoPath
	video.ThumbnailPath = req.ThumbnailPath
	video.ScriptPath = req.ScriptPath
	if req.Title != "" {
		video.Title = req.Title
	}
	if req.Description != "" {
		video.Description = req.Description
	}
	if len(req.Tags) > 0 {
		video.Tags = req.Tags
	}
	video.DurationSeconds = req.DurationSeconds

	if err := u.videoRepo.MarkReady(ctx, video); err != nil {
		return err
	}
	video.Status = model.VideoStatusReady
	if jobID != "" {
		if jErr := u.jobRepo.MarkResult(ctx, jobID, true, nil); jErr != nil {
			lg.WithField("error", jErr).Warn("failed to mark job completed")
		}
	}
	u.broadcast(series.UserID, video.ID, model.VideoStatusReady, nil)
	u.emit(ctx, "video.ready", video)
	lg.WithFields(map[string]interface{}{"video_id": video.ID, "series_id": series.ID}).Info("Video ready")

	// Scheduled videos go straight into the publish pipeline; publish failures
	// are recorded per platform and must not fail the render callback.
	if u.publisher != nil && video.ScheduledFor != nil && len(series.Platforms) > 0 {
		if _, pErr := u.publisher.Publish(ctx, video.ID, series.UserID, series.Platforms); pErr != nil {
			lg.WithFields(map[string]interface{}{"video_id": video.ID, "error": pErr}).Error("Auto-publish failed")
		}
	}
	return nil
}

func (u *videoUsecase) broadcast(userID, videoID, status string, errMsg *string) {
	if u.notify == nil {
		return
	}
	u.notify(userID, videoID, status, errMsg)
}

func (u *videoUsecase) emit(ctx context.Context, topic string, video *model.Video) {
	if u.events == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"video_id":  video.ID,
		"series_id": video.SeriesID,
		"status":    video.Status,
	})
	if err != nil {
		return
	}
	if _, err := u.events.Publish(ctx, topic, payload); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"topic": topic, "error": err}).Warn("failed to publish lifecycle event")
	}
}
