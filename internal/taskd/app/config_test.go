package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"AUTH_ISSUER", "AUTH_ALGORITHM", "AUTH_NUM_KEYS", "AUTH_TOKEN_TTL", "TASKD_DATABASE_FILE", "PORT"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "taskd", cfg.Issuer)
	require.Equal(t, "EdDSA", cfg.Algorithm)
	require.Equal(t, 0, cfg.NumKeys)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, "taskd.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AUTH_ALGORITHM", "HS256")
	t.Setenv("AUTH_HMAC_SECRET", "s3cret")
	t.Setenv("AUTH_TOKEN_TTL", "15")
	t.Setenv("PORT", "9000")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "30s")
	t.Setenv("AUTH_NUM_KEYS", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, "HS256", cfg.Algorithm)
	require.Equal(t, "s3cret", cfg.HMACSecret)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, 30*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 0, cfg.NumKeys)
}
