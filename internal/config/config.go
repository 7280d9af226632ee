package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pillmate/pill-helper/internal/logger"
)

type Config struct {
	TelegramToken string
	Backend       BackendConfig
	Places        PlacesConfig
	UserProfile   UserProfileConfig
	Logger        LoggerConfig
}

type BackendConfig struct {
	BaseURL string
}

type PlacesConfig struct {
	APIKey       string
	NearbyRadius int // meters
	BiasRadius   int // meters, keyword search location bias
}

// UserProfileConfig is the profile sent along with consultation requests.
// A real account system is out of scope; the profile comes from env.
type UserProfileConfig struct {
	Symptom   string
	Age       int
	Condition string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		Backend: BackendConfig{
			BaseURL: getEnvOrDefault("BACKEND_URL", "http://127.0.0.1:8000"),
		},
		Places: PlacesConfig{
			APIKey:       os.Getenv("GOOGLE_PLACES_API_KEY"),
			NearbyRadius: getEnvIntOrDefault("PLACES_NEARBY_RADIUS", 2000),
			BiasRadius:   getEnvIntOrDefault("PLACES_BIAS_RADIUS", 5000),
		},
		UserProfile: UserProfileConfig{
			Symptom:   getEnvOrDefault("USER_PROFILE_SYMPTOM", "속이 쓰리고 소화가 잘 안 돼요"),
			Age:       getEnvIntOrDefault("USER_PROFILE_AGE", 45),
			Condition: getEnvOrDefault("USER_PROFILE_CONDITION", "특이사항 없음"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	return cfg, nil
}
