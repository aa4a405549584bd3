package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("STATE_BACKEND", "")
	t.Setenv("IDLE_TIMEOUT", "")
	t.Setenv("SUPABASE_URL", "")

	cfg, err := LoadConfig(t.TempDir() + "/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, StateBackendMemory, cfg.StateBackend)
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, "ru", cfg.DefaultLocale)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STATE_BACKEND", "sqlite")
	t.Setenv("STATE_DB_PATH", "/tmp/state.db")
	t.Setenv("IDLE_TIMEOUT", "5m")
	t.Setenv("BANNED_WORDS", " casino, ,scam ")
	t.Setenv("SUPABASE_URL", "")

	cfg, err := LoadConfig(t.TempDir() + "/missing.env")
	require.NoError(t, err)

	assert.Equal(t, StateBackendSQLite, cfg.StateBackend)
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, []string{"casino", "scam"}, cfg.BannedWords)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "IDLE_TIMEOUT", "soon"},
		{"bad backend", "STATE_BACKEND", "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUPABASE_URL", "")
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig(t.TempDir() + "/missing.env")
			assert.Error(t, err)
		})
	}
}

func TestValidate_SupabaseKeyRequired(t *testing.T) {
	cfg := &Config{StateBackend: StateBackendMemory, SupabaseURL: "https://x.supabase.co"}
	assert.Error(t, cfg.Validate())
}
