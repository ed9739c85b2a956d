package repository

import (
	"context"

	"reelpilot/domain/model"
)

// IUser defines persistence for user accounts.
type IUser interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUserName(ctx context.Context, userName string) (*model.User, error)
	IncrementMonthlyGenerated(ctx context.Context, id string) error
}
