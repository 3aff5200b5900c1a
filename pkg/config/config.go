package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Model    ModelConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type ModelConfig struct {
	// BasePath is the root directory holding per-vertical model artifacts.
	BasePath string
	// CacheTTLSeconds bounds the shared model cache freshness window.
	CacheTTLSeconds int
	// MaxLeadBytes rejects absurdly large lead payloads; the API gateway
	// already caps requests at 100KB, this is the defensive backstop.
	MaxLeadBytes int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cacheTTL, err := strconv.Atoi(getEnv("MODEL_CACHE_TTL_SECONDS", "3600"))
	if err != nil {
		return nil, errors.New("invalid model cache ttl")
	}

	maxLeadBytes, err := strconv.Atoi(getEnv("MAX_LEAD_BYTES", "102400"))
	if err != nil {
		return nil, errors.New("invalid max lead bytes")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Lead Scoring API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "lead_scoring"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Model: ModelConfig{
			BasePath:        getEnv("MODEL_BASE_PATH", "/opt/ml/models"),
			CacheTTLSeconds: cacheTTL,
			MaxLeadBytes:    maxLeadBytes,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
