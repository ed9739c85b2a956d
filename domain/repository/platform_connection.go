package repository

import (
	"context"

	"reelpilot/domain/model"
)

// IPlatformConnection defines persistence for per-(user, platform) OAuth
// connections.
type IPlatformConnection interface {
	// Upsert inserts or replaces the connection for (user_id, platform).
	Upsert(ctx context.Context, c *model.PlatformConnection) error
	// GetActive returns the active connection for the pair, or nil when the user
	// has not connected the platform (or the connection is revoked/errored).
	GetActive(ctx context.Context, userID, platform string) (*model.PlatformConnection, error)
	ListByUser(ctx context.Context, userID string) ([]*model.PlatformConnection, error)
	// UpdateTokens persists refreshed token material.
	UpdateTokens(ctx context.Context, c *model.PlatformConnection) error
	MarkStatus(ctx context.Context, id, status string, lastError *string) error
	TouchLastUsed(ctx context.Context, id string) error
}
