package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"stack-scheduler/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	HDevAPIKey         string
	HDevBaseURL        string
	RiotAPIKey         string
	RiotBaseURL        string
	DBPath             string
	ServerPort         string
	LogLevel           string
	RefreshConcurrency int
	UpstreamTimeout    time.Duration
	RiotVerifyTimeout  time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		HDevAPIKey:         getEnv("HDEV_API_KEY", ""),
		HDevBaseURL:        strings.TrimRight(getEnv("HDEV_BASE_URL", constants.HDevBaseURL), "/"),
		RiotAPIKey:         getEnv("RIOT_API_KEY", ""),
		RiotBaseURL:        strings.TrimRight(getEnv("RIOT_BASE_URL", constants.RiotBaseURL), "/"),
		DBPath:             getEnv("DB_PATH", "stack.db"),
		ServerPort:         getEnv("SERVER_PORT", "3000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RefreshConcurrency: constants.DefaultRefreshConcurrency,
		UpstreamTimeout:    constants.UpstreamTimeout,
		RiotVerifyTimeout:  constants.RiotVerifyTimeout,
	}

	if cfg.HDevAPIKey == "" {
		return nil, fmt.Errorf("HDEV_API_KEY is required")
	}

	if raw := getEnv("REFRESH_CONCURRENCY", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("REFRESH_CONCURRENCY must be a positive integer, got %q", raw)
		}
		cfg.RefreshConcurrency = n
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	if cfg.RiotAPIKey == "" {
		logger.Warn().Msg("RIOT_API_KEY not set, riot id verification falls back to account lookup")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("hdev_base_url", cfg.HDevBaseURL).
		Int("refresh_concurrency", cfg.RefreshConcurrency).
		Dur("upstream_timeout", cfg.UpstreamTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
