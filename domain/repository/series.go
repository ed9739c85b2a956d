package repository

import (
	"context"
	"time"

	"reelpilot/domain/model"
)

// ISeries defines persistence for content series.
type ISeries interface {
	Create(ctx context.Context, s *model.Series) error
	GetByID(ctx context.Context, id string) (*model.Series, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Series, error)
	ListActive(ctx context.Context) ([]*model.Series, error)
	Update(ctx context.Context, s *model.Series) error
	// AdvanceSchedule records a dispatched generation: bumps last_video_at,
	// next_video_at and the generated counter in one statement.
	AdvanceSchedule(ctx context.Context, id string, lastVideoAt, nextVideoAt time.Time) error
	IncrementPublished(ctx context.Context, id string) error
}
