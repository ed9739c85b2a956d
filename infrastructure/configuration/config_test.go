package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfiguration is a smoke test over the config defaults applied at init.
func TestConfiguration(t *testing.T) {
	t.Run("configuration_struct_exists", func(t *testing.T) {
		require.NotNil(t, &C, "Configuration should not be nil")
		require.NotNil(t, &C.App, "App configuration should exist")
		require.NotNil(t, &C.Database, "Database configuration should exist")
	})

	t.Run("defaults_are_applied", func(t *testing.T) {
		assert.NotZero(t, C.App.Port, "port should default when unset")
		assert.NotZero(t, C.Scheduler.IntervalMinutes, "scheduler interval should default")
		assert.NotZero(t, C.Scheduler.LeadTimeMinutes, "lead time should default")
		assert.NotEmpty(t, C.Platforms.Enabled, "enabled platforms should default")
	})
}

func TestGetPlatformOAuthConfig(t *testing.T) {
	t.Run("known_platform_gets_default_redirect", func(t *testing.T) {
		cfg, err := GetPlatformOAuthConfig("youtube")
		require.NoError(t, err)
		assert.Contains(t, cfg.RedirectURL, "/auth/youtube/callback")
	})

	t.Run("env_override_wins", func(t *testing.T) {
		t.Setenv("TIKTOK_CLIENT_ID", "env-client-id")
		cfg, err := GetPlatformOAuthConfig("tiktok")
		require.NoError(t, err)
		assert.Equal(t, "env-client-id", cfg.ClientID)
	})

	t.Run("unknown_platform_errors", func(t *testing.T) {
		_, err := GetPlatformOAuthConfig("myspace")
		assert.Error(t, err)
	})
}
