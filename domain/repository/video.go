package repository

import (
	"context"
	"time"

	"reelpilot/domain/model"
)

// IVideo defines persistence for generated videos.
type IVideo interface {
	Create(ctx context.Context, v *model.Video) error
	GetByID(ctx context.Context, id string) (*model.Video, error)
	ListBySeries(ctx context.Context, seriesID string, limit, offset int) ([]*model.Video, error)
	UpdateStatus(ctx context.Context, id, status string, errMsg *string) error
	MarkReady(ctx context.Context, v *model.Video) error

	// SetPlatformResult writes one platform's id/url/published-at columns. Called
	// immediately after each platform succeeds so partial progress is durable.
	SetPlatformResult(ctx context.Context, id, platform, platformID, url string, publishedAt time.Time) error

	// ClearLocalPaths nulls the local artifact paths after cleanup, leaving
	// platform URLs intact.
	ClearLocalPaths(ctx context.Context, id string) error

	// LastScheduledFor returns the most recent scheduled_for instant for the
	// series, or nil when no video has been scheduled yet.
	LastScheduledFor(ctx context.Context, seriesID string) (*time.Time, error)

	// ExistsForSlot is the duplicate guard: reports whether a non-failed video
	// already exists for the exact (series, scheduled_for) pair.
	ExistsForSlot(ctx context.Context, seriesID string, slot time.Time) (bool, error)
}
