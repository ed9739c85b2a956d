package repository

import (
	"context"
	"time"
)

// OAuthState is the payload bound to an in-flight OAuth handshake.
type OAuthState struct {
	UserID   string `json:"user_id"`
	Platform string `json:"platform"`
	ReturnTo string `json:"return_to,omitempty"`
}

// IOAuthState is a keyed store with explicit TTL for OAuth handshake states.
// Consume is lookup-and-delete so a state token is single-use even across
// multiple service instances.
type IOAuthState interface {
	Put(ctx context.Context, state string, payload OAuthState, ttl time.Duration) error
	Consume(ctx context.Context, state string) (*OAuthState, error)
}
