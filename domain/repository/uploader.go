package repository

import (
	"context"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
)

// IPlatformUploader wraps one social platform's upload and token-refresh
// capability. The orchestrator selects an implementation by platform name, so
// adding a platform is a new implementation, not an edit to the orchestrator.
type IPlatformUploader interface {
	Platform() string
	// Upload delivers the video. Implementations return an error for any
	// platform-side rejection; the orchestrator records it and moves on.
	Upload(ctx context.Context, conn *model.PlatformConnection, req *dto.UploadRequest) (*dto.UploadOutcome, error)
	// RefreshToken refreshes the connection's token material in place and
	// reports whether a refresh happened. Failure is non-fatal to the upload.
	RefreshToken(ctx context.Context, conn *model.PlatformConnection) (bool, error)
}
