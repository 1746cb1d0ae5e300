// Package config loads application configuration from environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultContainerName is used when neither CONTAINER_NAME nor STORAGE_BUCKET is set.
const DefaultContainerName = "uploads"

// Config holds all runtime configuration for the service.
type Config struct {
	Port      string
	AppEnv    string
	LogLevel  string
	LogFormat string
	StaticDir string

	// CORSAllowedOrigins feeds go-chi/cors; "*" allows any origin.
	CORSAllowedOrigins []string

	// Object storage (S3-compatible: MinIO locally, any S3 provider in production).
	// StorageEndpoint is required for uploads but not for startup.
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageRegion     string
	StorageUseSSL     bool
	StoragePublicBase string // browser-facing base URL, e.g. "https://cdn.example.com"
	StoragePartSizeMB int
	// StoragePublicRead grants anonymous GET on objects in a bucket the service creates.
	StoragePublicRead bool
	ContainerName     string

	// DatabaseURL enables the upload ledger when non-empty.
	DatabaseURL string
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, reading from environment")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: os.Getenv("LOG_FORMAT"),
		StaticDir: getEnv("STATIC_DIR", "wwwroot"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		StorageEndpoint:   strings.TrimSpace(getEnv("STORAGE_ENDPOINT", "")),
		StorageAccessKey:  getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey:  getEnv("STORAGE_SECRET_KEY", ""),
		StorageRegion:     getEnv("STORAGE_REGION", ""),
		StorageUseSSL:     getEnv("STORAGE_USE_SSL", "true") == "true",
		StoragePublicBase: getEnv("STORAGE_PUBLIC_BASE", ""),
		StoragePartSizeMB: getEnvInt("STORAGE_PART_SIZE_MB", 16),
		StoragePublicRead: getEnv("STORAGE_PUBLIC_READ", "false") == "true",
		ContainerName:     getEnv("CONTAINER_NAME", getEnv("STORAGE_BUCKET", DefaultContainerName)),

		DatabaseURL: getEnv("DATABASE_URL", ""),
	}

	// LOG_FORMAT defaults to json in production and text elsewhere.
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
		if cfg.IsProduction() {
			cfg.LogFormat = "json"
		}
	}
	return cfg
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StorageConfigured reports whether an object store endpoint has been set.
func (c *Config) StorageConfigured() bool {
	return c.StorageEndpoint != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
