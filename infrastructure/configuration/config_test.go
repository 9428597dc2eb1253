package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConfiguration is a smoke test over the configuration defaults.
func TestConfiguration(t *testing.T) {
	t.Run("configuration_struct_exists", func(t *testing.T) {
		require.NotNil(t, &C, "Configuration should not be nil")
		require.NotNil(t, &C.App, "App configuration should exist")
		require.NotNil(t, &C.YouTube, "YouTube configuration should exist")
	})

	t.Run("defaults_applied", func(t *testing.T) {
		require.NotZero(t, C.App.Port, "App port should default when unset")
		require.NotEmpty(t, C.YouTube.SavedPlaylistName, "Saved playlist name should default")
	})
}
