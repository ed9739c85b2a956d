package repository

import (
	"context"

	"reelpilot/domain/model"
)

// IJob defines persistence for background job tracking.
type IJob interface {
	Create(ctx context.Context, j *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	UpdateStage(ctx context.Context, id, status, stage string) error
	MarkResult(ctx context.Context, id string, success bool, errMsg *string) error
}
