package config

import (
	"fmt"
	"os"
)

// Config holds environment-driven server configuration.
type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	AWSRegion  string
	AWSBucket  string
	CDNBaseURL string

	JWTSecret string

	LogLevel string
	LogFile  string
}

// Load reads configuration from the environment. DATABASE_URL wins over the
// individual DB_* components.
func Load() *Config {
	cfg := &Config{
		Port:          getEnvOrDefault("PORT", "8787"),
		Environment:   getEnvOrDefault("ENVIRONMENT", "development"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AWSRegion:     getEnvOrDefault("AWS_REGION", "us-east-1"),
		AWSBucket:     os.Getenv("AWS_BUCKET"),
		CDNBaseURL:    os.Getenv("CDN_BASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:       getEnvOrDefault("LOG_FILE", "server.log"),
	}

	if cfg.DatabaseURL == "" {
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		dbname := getEnvOrDefault("DB_NAME", "bbyte")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		cfg.DatabaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
