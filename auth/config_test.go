package auth_test

import (
	"testing"
	"time"

	"github.com/kdornadula/planventure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, testConfig().Validate())
	})

	t.Run("missing session key", func(t *testing.T) {
		cfg := testConfig()
		cfg.SigningKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing reset key", func(t *testing.T) {
		cfg := testConfig()
		cfg.ResetSigningKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("shared key across token classes", func(t *testing.T) {
		cfg := testConfig()
		cfg.ResetSigningKey = cfg.SigningKey
		assert.Error(t, cfg.Validate())
	})

	t.Run("access TTL must be shorter than refresh TTL", func(t *testing.T) {
		cfg := testConfig()
		cfg.AccessTokenTTL = cfg.RefreshTokenTTL
		assert.Error(t, cfg.Validate())
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("reads keys and TTLs from the environment", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "env-session-key")
		t.Setenv("SECRET_KEY", "env-reset-key")
		t.Setenv("JWT_ACCESS_TOKEN_TTL", "15m")

		cfg, err := auth.NewConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "env-session-key", cfg.GetSigningKey())
		assert.Equal(t, "env-reset-key", cfg.GetResetSigningKey())
		assert.Equal(t, 15*time.Minute, cfg.GetAccessTokenTTL())
		assert.Equal(t, auth.DefaultRefreshTokenTTL, cfg.GetRefreshTokenTTL())
	})

	t.Run("bad duration is an error", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "env-session-key")
		t.Setenv("SECRET_KEY", "env-reset-key")
		t.Setenv("JWT_ACCESS_TOKEN_TTL", "soon")

		_, err := auth.NewConfigFromEnv()
		assert.Error(t, err)
	})
}
