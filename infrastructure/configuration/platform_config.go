package configuration

import (
	"fmt"
	"os"
	"strings"
)

// PlatformOAuthConfig is the resolved OAuth client configuration for one
// publish platform, after env overrides and defaults are applied.
type PlatformOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// GetPlatformOAuthConfig resolves the OAuth client for a platform from JSON
// config with environment variable fallback. Env keys follow the pattern
// YOUTUBE_CLIENT_ID, TIKTOK_CLIENT_SECRET, INSTAGRAM_REDIRECT_URL and so on.
func GetPlatformOAuthConfig(platform string) (*PlatformOAuthConfig, error) {
	var client OAuthClient
	switch strings.ToLower(platform) {
	case "youtube":
		client = C.OAuth.YouTube
	case "tiktok":
		client = C.OAuth.TikTok
	case "instagram":
		client = C.OAuth.Instagram
	default:
		return nil, fmt.Errorf("unknown platform %q", platform)
	}

	prefix := strings.ToUpper(platform)
	scheme := "http"
	if C.App.TLSEnabled {
		scheme = "https"
	}
	port := C.App.Port
	if port == 0 {
		port = 10001
	}
	defaultRedirect := fmt.Sprintf("%s://localhost:%d/auth/%s/callback", scheme, port, strings.ToLower(platform))

	return &PlatformOAuthConfig{
		ClientID:     getConfigValue(client.ClientID, prefix+"_CLIENT_ID", ""),
		ClientSecret: getConfigValue(client.ClientSecret, prefix+"_CLIENT_SECRET", ""),
		RedirectURL:  getConfigValue(client.RedirectURI, prefix+"_REDIRECT_URL", defaultRedirect),
		Scopes:       client.Scopes,
	}, nil
}

// getConfigValue gets value from environment first, then config, then default.
// Placeholder values left in checked-in config files are ignored.
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}
