package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/domain/repository"
	"reelpilot/infrastructure/logger"
)

var (
	ErrSeriesLimitReached = errors.New("series limit reached for plan")
	ErrNotSeriesOwner     = errors.New("series does not belong to user")
)

type ISeriesUsecase interface {
	Create(ctx context.Context, userID string, req dto.SeriesCreateRequest) (*model.Series, error)
	Get(ctx context.Context, userID, seriesID string) (*model.Series, error)
	List(ctx context.Context, userID string) ([]*model.Series, error)
	Update(ctx context.Context, userID, seriesID string, req dto.SeriesUpdateRequest) (*model.Series, error)
	Delete(ctx context.Context, userID, seriesID string) error
}

type seriesUsecase struct {
	seriesRepo repository.ISeries
	userRepo   repository.IUser
}

func NewSeriesUsecase(seriesRepo repository.ISeries, userRepo repository.IUser) ISeriesUsecase {
	return &seriesUsecase{seriesRepo: seriesRepo, userRepo: userRepo}
}

func (u *seriesUsecase) Create(ctx context.Context, userID string, req dto.SeriesCreateRequest) (*model.Series, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	owned, err := u.seriesRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	limit := user.SeriesPurchased
	if limit < 1 {
		limit = 1
	}
	if len(owned) >= limit {
		return nil, ErrSeriesLimitReached
	}

	series := &model.Series{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,

		Niche:         req.Niche,
		NicheFormat:   req.NicheFormat,
		VisualStyle:   req.VisualStyle,
		VoiceID:       req.VoiceID,
		CaptionStyle:  req.CaptionStyle,
		VideoDuration: req.VideoDuration,

		PostingTimes: req.PostingTimes,
		Timezone:     req.Timezone,
		Platforms:    req.Platforms,
		Status:       model.SeriesStatusActive,
	}
	if series.VideoDuration == 0 {
		series.VideoDuration = 45
	}
	if len(series.PostingTimes) == 0 {
		series.PostingTimes = []string{"09:00"}
	}
	if series.Timezone == "" {
		series.Timezone = "UTC"
	}
	if err := validatePlatforms(series.Platforms); err != nil {
		return nil, err
	}

	// Validates the posting times and seeds next_video_at in one go.
	next, err := NextSlot(series.PostingTimes, series.Timezone, user.Plan, nil, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	series.NextVideoAt = &next

	if err := u.seriesRepo.Create(ctx, series); err != nil {
		return nil, err
	}
	logger.GetLogger().WithFields(map[string]interface{}{"series_id": series.ID, "user_id": userID}).Info("Series created")
	return series, nil
}

func (u *seriesUsecase) Get(ctx context.Context, userID, seriesID string) (*model.Series, error) {
	series, err := u.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if series == nil || series.Status == model.SeriesStatusDeleted {
		return nil, ErrSeriesNotFound
	}
	if series.UserID != userID {
		return nil, ErrNotSeriesOwner
	}
	return series, nil
}

func (u *seriesUsecase) List(ctx context.Context, userID string) ([]*model.Series, error) {
	return u.seriesRepo.ListByUser(ctx, userID)
}

func (u *seriesUsecase) Update(ctx context.Context, userID, seriesID string, req dto.SeriesUpdateRequest) (*model.Series, error) {
	series, err := u.Get(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}

	scheduleChanged := false
	if req.Name != nil {
		series.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		series.Description = *req.Description
	}
	if req.PostingTimes != nil {
		series.PostingTimes = *req.PostingTimes
		scheduleChanged = true
	}
	if req.Timezone != nil {
		series.Timezone = *req.Timezone
		scheduleChanged = true
	}
	if req.Platforms != nil {
		if err := validatePlatforms(*req.Platforms); err != nil {
			return nil, err
		}
		series.Platforms = *req.Platforms
	}
	if req.Status != nil {
		switch *req.Status {
		case model.SeriesStatusActive, model.SeriesStatusPaused:
			if series.Status != *req.Status {
				series.Status = *req.Status
				// Resuming recomputes the slot so a long pause does not
				// produce a generation burst.
				scheduleChanged = series.Status == model.SeriesStatusActive
			}
		default:
			return nil, fmt.Errorf("invalid status: %s", *req.Status)
		}
	}

	if scheduleChanged {
		user, err := u.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		next, err := NextSlot(series.PostingTimes, series.Timezone, user.Plan, series.LastVideoAt, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		series.NextVideoAt = &next
	}

	if err := u.seriesRepo.Update(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

// Delete is a soft delete; videos already published stay where they are.
func (u *seriesUsecase) Delete(ctx context.Context, userID, seriesID string) error {
	series, err := u.Get(ctx, userID, seriesID)
	if err != nil {
		return err
	}
	series.Status = model.SeriesStatusDeleted
	return u.seriesRepo.Update(ctx, series)
}

func validatePlatforms(platforms []string) error {
	for _, p := range platforms {
		switch strings.ToLower(p) {
		case model.PlatformYouTube, model.PlatformTikTok, model.PlatformInstagram:
		default:
			return fmt.Errorf("unsupported platform: %s", p)
		}
	}
	return nil
}
