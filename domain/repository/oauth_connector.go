package repository

import (
	"context"

	"reelpilot/domain/model"
)

// IOAuthConnector drives the connect flow for one platform: build the consent
// URL, then exchange the callback code for a connection carrying tokens and
// the platform-side account identity.
type IOAuthConnector interface {
	Platform() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*model.PlatformConnection, error)
}
