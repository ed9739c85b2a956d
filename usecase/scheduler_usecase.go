package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reelpilot/domain/model"
	"reelpilot/domain/repository"
	"reelpilot/infrastructure/logger"
	"reelpilot/infrastructure/pubsub"
)

var (
	ErrQuotaExceeded  = errors.New("monthly video quota exceeded")
	ErrSeriesNotFound = errors.New("series not found")
	ErrSeriesInactive = errors.New("series is not active")
)

type ISchedulerUsecase interface {
	// RunCycle walks all active series once and dispatches generation for every
	// series whose next slot has entered its lead window.
	RunCycle(ctx context.Context) error
	// GenerateNow dispatches an on-demand generation outside the schedule.
	GenerateNow(ctx context.Context, seriesID string) (*model.Video, error)
}

type schedulerUsecase struct {
	seriesRepo repository.ISeries
	videoRepo  repository.IVideo
	jobRepo    repository.IJob
	userRepo   repository.IUser
	generator  repository.IVideoGenerator
	events     pubsub.IEventPublisher // optional
	leadTime   time.Duration
	now        func() time.Time
}

func NewSchedulerUsecase(
	seriesRepo repository.ISeries,
	videoRepo repository.IVideo,
	jobRepo repository.IJob,
	userRepo repository.IUser,
	generator repository.IVideoGenerator,
) *schedulerUsecase {
	return &schedulerUsecase{
		seriesRepo: seriesRepo,
		videoRepo:  videoRepo,
		jobRepo:    jobRepo,
		userRepo:   userRepo,
		generator:  generator,
		leadTime:   DefaultGenerationLeadTime,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithEvents enables lifecycle event publishing (fluent).
func (u *schedulerUsecase) WithEvents(events pubsub.IEventPublisher) *schedulerUsecase {
	u.events = events
	return u
}

// WithLeadTime overrides how far ahead of a slot generation starts (fluent).
func (u *schedulerUsecase) WithLeadTime(d time.Duration) *schedulerUsecase {
	u.leadTime = d
	return u
}

// WithClock overrides the time source (fluent).
func (u *schedulerUsecase) WithClock(now func() time.Time) *schedulerUsecase {
	u.now = now
	return u
}

func (u *schedulerUsecase) RunCycle(ctx context.Context) error {
	lg := logger.GetLogger()
	seriesList, err := u.seriesRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active series: %w", err)
	}
	lg.WithField("count", len(seriesList)).Info("Schedule cycle started")

	// One bad series must not block the rest of the fleet.
	for _, s := range seriesList {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.checkSeries(ctx, s); err != nil {
			lg.WithFields(map[string]interface{}{"series_id": s.ID, "error": err}).Error("Schedule check failed for series")
		}
	}
	return nil
}

func (u *schedulerUsecase) checkSeries(ctx context.Context, s *model.Series) error {
	lg := logger.GetLogger()
	nowUTC := u.now()

	user, err := u.userRepo.GetByID(ctx, s.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", s.UserID, err)
	}
	if user == nil {
		return fmt.Errorf("user %s not found", s.UserID)
	}
	if !user.CanGenerateVideo() {
		lg.WithFields(map[string]interface{}{"series_id": s.ID, "user_id": user.ID}).Info("Monthly quota reached, skipping series")
		return nil
	}

	lastSlot, err := u.videoRepo.LastScheduledFor(ctx, s.ID)
	if err != nil {
		return fmt.Errorf("failed to read last slot: %w", err)
	}
	slot, err := NextSlot(s.PostingTimes, s.Timezone, user.Plan, lastSlot, nowUTC)
	if err != nil {
		return err
	}
	if !InGenerationWindow(slot, u.leadTime, nowUTC) {
		return nil
	}

	// Duplicate guard: a restart mid-window must not dispatch the slot twice.
	exists, err := u.videoRepo.ExistsForSlot(ctx, s.ID, slot)
	if err != nil {
		return fmt.Errorf("failed to check slot: %w", err)
	}
	if exists {
		return nil
	}

	lg.WithFields(map[string]interface{}{"series_id": s.ID, "slot": slot.Format(time.RFC3339)}).Info("Slot entered generation window, dispatching")
	video, err := u.dispatch(ctx, s, &slot, model.JobTypeScheduledGeneration)
	if err != nil {
		return err
	}

	// The series schedule advances even if generation later fails; a failed video
	// is retried manually, not by replaying the slot.
	nextSlot, err := NextSlot(s.PostingTimes, s.Timezone, user.Plan, &slot, nowUTC)
	if err != nil {
		return err
	}
	if err := u.seriesRepo.AdvanceSchedule(ctx, s.ID, slot, nextSlot); err != nil {
		lg.WithField("error", err).Error("failed to advance series schedule")
	}
	if err := u.userRepo.IncrementMonthlyGenerated(ctx, user.ID); err != nil {
		lg.WithField("error", err).Warn("failed to bump monthly generation counter")
	}
	u.emit(ctx, "video.generation_dispatched", s, video)
	return nil
}

func (u *schedulerUsecase) GenerateNow(ctx context.Context, seriesID string) (*model.Video, error) {
	s, err := u.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	if s == nil {
		return nil, ErrSeriesNotFound
	}
	if s.Status == model.SeriesStatusDeleted {
		return nil, ErrSeriesInactive
	}
	user, err := u.userRepo.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !user.CanGenerateVideo() {
		return nil, ErrQuotaExceeded
	}

	video, err := u.dispatch(ctx, s, nil, model.JobTypeManualGeneration)
	if err != nil {
		return nil, err
	}
	if err := u.userRepo.IncrementMonthlyGenerated(ctx, user.ID); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to bump monthly generation counter")
	}
	u.emit(ctx, "video.generation_dispatched", s, video)
	return video, nil
}

// dispatch creates the video and job rows, then hands off to the render
// service. The video row exists before dispatch so the render callback always
// has something to attach to.
func (u *schedulerUsecase) dispatch(ctx context.Context, s *model.Series, slot *time.Time, jobType string) (*model.Video, error) {
	nowUTC := u.now()
	video := &model.Video{
		ID:           uuid.NewString(),
		SeriesID:     s.ID,
		Status:       model.VideoStatusPending,
		ScheduledFor: slot,
		CreatedAt:    nowUTC,
		UpdatedAt:    nowUTC,
	}
	if err := u.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	job := &model.Job{
		ID:        uuid.NewString(),
		VideoID:   video.ID,
		JobType:   jobType,
		Status:    model.JobStatusPending,
		CreatedAt: nowUTC,
		UpdatedAt: nowUTC,
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	if err := u.generator.Generate(ctx, job, video, s); err != nil {
		msg := err.Error()
		if mErr := u.jobRepo.MarkResult(ctx, job.ID, false, &msg); mErr != nil {
			logger.GetLogger().WithField("error", mErr).Error("failed to mark job failed")
		}
		if sErr := u.videoRepo.UpdateStatus(ctx, video.ID, model.VideoStatusFailed, &msg); sErr != nil {
			logger.GetLogger().WithField("error", sErr).Error("failed to mark video failed")
		}
		return nil, fmt.Errorf("failed to dispatch generation: %w", err)
	}

	if err := u.jobRepo.UpdateStage(ctx, job.ID, model.JobStatusRunning, "dispatched"); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to update job stage")
	}
	if err := u.videoRepo.UpdateStatus(ctx, video.ID, model.VideoStatusGenerating, nil); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to mark video generating")
	}
	video.Status = model.VideoStatusGenerating
	return video, nil
}

func (u *schedulerUsecase) emit(ctx context.Context, topic string, s *model.Series, video *model.Video) {
	if u.events == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"series_id": s.ID,
		"video_id":  video.ID,
		"job_type":  topic,
	})
	if err != nil {
		return
	}
	if _, err := u.events.Publish(ctx, topic, payload); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"topic": topic, "error": err}).Warn("failed to publish lifecycle event")
	}
}
