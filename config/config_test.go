package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/room4-2/tablemate/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "REDIS_URL", "REDIS_PASSWORD", "MAX_SESSIONS", "SESSION_TIMEOUT",
		"ALLOWED_ORIGINS", "CLASSIFIER", "GEMINI_API_KEY", "RESTAURANT_DATA",
		"DIALOG_DATA", "RULES_PATH", "RELAXATIONS_PATH", "MAX_RECOMMENDATIONS",
		"MAX_TRANSCRIPT_TURNS", "ALLOW_RESTART",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, 100, cfg.MaxSessions)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "bayes", cfg.ClassifierType)
	assert.Equal(t, "data/restaurant_info.csv", cfg.RestaurantData)
	assert.Equal(t, "data/dialogs.dat", cfg.DialogData)
	assert.Equal(t, 3, cfg.MaxRecommendations)
	assert.Equal(t, 100, cfg.MaxTranscriptTurns)
	assert.True(t, cfg.AllowRestart)
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CLASSIFIER", "keyword")
	t.Setenv("SESSION_TIMEOUT", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MAX_RECOMMENDATIONS", "5")
	t.Setenv("ALLOW_RESTART", "false")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "keyword", cfg.ClassifierType)
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.MaxRecommendations)
	assert.False(t, cfg.AllowRestart)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")
	_, err := config.LoadConfig()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("CLASSIFIER", "banana")
	_, err = config.LoadConfig()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("ALLOW_RESTART", "maybe")
	_, err = config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigGeminiNeedsKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLASSIFIER", "gemini")
	_, err := config.LoadConfig()
	assert.Error(t, err)

	t.Setenv("GEMINI_API_KEY", "test-key")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.ClassifierType)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
}
