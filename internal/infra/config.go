package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv       string
	AdminPort    string
	BotToken     string
	OwnerID      int64
	HordeBaseURL string
	HordeAPIKey  string
	CraiyonURL   string
	TranslateURL string
	PalmBaseURL  string
	PalmAPIKey   string

	HTTPTimeout      time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		AdminPort:        getEnv("ADMIN_PORT", "8080"),
		BotToken:         os.Getenv("TELEGRAM_BOT_TOKEN"),
		OwnerID:          int64(getEnvInt("OWNER_ID", 0)),
		HordeBaseURL:     getEnv("STABLE_HORDE_BASE_URL", "https://stablehorde.net/api/v2"),
		HordeAPIKey:      os.Getenv("STABLE_HORDE_API_KEY"),
		CraiyonURL:       getEnv("CRAIYON_BASE_URL", "https://backend.craiyon.com"),
		TranslateURL:     getEnv("TRANSLATE_BASE_URL", "https://translate.googleapis.com"),
		PalmBaseURL:      getEnv("PALM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta2"),
		PalmAPIKey:       os.Getenv("PALM_API_KEY"),
		HTTPTimeout:      time.Second * time.Duration(getEnvInt("HTTP_CLIENT_TIMEOUT_SECONDS", 60)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
