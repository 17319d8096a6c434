package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"winter-of-code-backend/internal/database"
)

// Config holds the server, database and event settings.
type Config struct {
	ServerPort     string
	Env            string
	JWTSecret      string
	JWTTTL         time.Duration
	LaunchTime     time.Time
	WeeklyCronSpec string
	IDCardQuota    int
	Database       database.Config
}

// Load reads configuration from the environment with development defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:         getDuration("JWT_TTL", 24*time.Hour),
		LaunchTime:     getTime("LAUNCH_TIME", time.Time{}),
		WeeklyCronSpec: getEnv("WEEKLY_CRON", "0 0 * * MON"),
		IDCardQuota:    getInt("IDCARD_QUOTA", 3),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "winter_of_code"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getTime parses an RFC 3339 timestamp. The zero value means the launch
// gate is open.
func getTime(key string, defaultValue time.Time) time.Time {
	if value := os.Getenv(key); value != "" {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t
		}
	}
	return defaultValue
}
