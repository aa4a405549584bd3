package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StateBackendMemory = "memory"
	StateBackendSQLite = "sqlite"
)

type Config struct {
	TelegramToken string
	SupabaseURL   string
	SupabaseKey   string

	StateBackend string
	StateDBPath  string

	// IdleTimeout - через сколько простоя диалог сбрасывается, 0 отключает
	IdleTimeout   time.Duration
	SweepInterval time.Duration

	DefaultLocale string
	BannedWords   []string

	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// LoadConfig читает .env (если он есть) и переменные окружения
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		SupabaseKey:   os.Getenv("SUPABASE_KEY"),
		StateBackend:  getEnv("STATE_BACKEND", StateBackendMemory),
		StateDBPath:   getEnv("STATE_DB_PATH", "state.db"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "ru"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		BannedWords:   splitList(os.Getenv("BANNED_WORDS")),
	}

	var err error
	if cfg.IdleTimeout, err = getDuration("IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.StateBackend {
	case StateBackendMemory:
	case StateBackendSQLite:
		if c.StateDBPath == "" {
			return fmt.Errorf("STATE_DB_PATH is required for sqlite state backend")
		}
	default:
		return fmt.Errorf("unknown STATE_BACKEND %q", c.StateBackend)
	}
	if c.SupabaseURL != "" && c.SupabaseKey == "" {
		return fmt.Errorf("SUPABASE_KEY is required when SUPABASE_URL is set")
	}
	if c.IdleTimeout < 0 || c.SweepInterval < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
