package model

import "time"

// Supported publish platforms.
const (
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
)

// Connection statuses.
const (
	ConnectionStatusActive  = "active"
	ConnectionStatusExpired = "expired"
	ConnectionStatusRevoked = "revoked"
	ConnectionStatusError   = "error"
)

// refreshBuffer is how close to expiry a token may get before we try to refresh it.
const refreshBuffer = 5 * time.Minute

// PlatformConnection stores OAuth credentials for one (user, platform) pair.
type PlatformConnection struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Platform         string  `json:"platform"` // youtube | tiktok | instagram
	PlatformUserID   *string `json:"platform_user_id,omitempty"`
	PlatformUsername *string `json:"platform_username,omitempty"`
	ChannelID        *string `json:"channel_id,omitempty"`
	ChannelName      *string `json:"channel_name,omitempty"`

	AccessToken  string  `json:"-"`
	RefreshToken *string `json:"-"`
	TokenType    string  `json:"token_type"`
	Scope        *string `json:"scope,omitempty"`

	AccessTokenExpiresAt  *time.Time `json:"access_token_expires_at,omitempty"`
	RefreshTokenExpiresAt *time.Time `json:"refresh_token_expires_at,omitempty"`

	Status     string     `json:"status"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	LastError  *string    `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired reports whether the access token is past its hard expiry.
func (c *PlatformConnection) IsExpired() bool {
	if c.AccessTokenExpiresAt == nil {
		return false
	}
	return time.Now().UTC().After(*c.AccessTokenExpiresAt)
}

// NeedsRefresh reports whether the access token is within the refresh buffer of
// expiry. Refresh is attempted before upload but is best-effort, not a gate.
func (c *PlatformConnection) NeedsRefresh() bool {
	if c.AccessTokenExpiresAt == nil {
		return false
	}
	return time.Now().UTC().After(c.AccessTokenExpiresAt.Add(-refreshBuffer))
}
