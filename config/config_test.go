package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("overlays file values on the defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conquest.yaml")
		data := []byte("combat:\n  home_advantage: 0.25\nai:\n  think_interval: 7s\n")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, 0.25, cfg.Combat.HomeAdvantage)
		require.Equal(t, 7*time.Second, cfg.AI.ThinkInterval)
		require.Equal(t, Default().Supply.Cooldown, cfg.Supply.Cooldown,
			"untouched sections keep their defaults")
	})

	t.Run("a missing file returns the defaults with an error", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

		require.Error(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("malformed yaml is reported", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("combat: ["), 0o644))

		_, err := Load(path)

		require.Error(t, err)
	})
}
