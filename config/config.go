package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/devevent/backend/pkg/apperr"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Images   ImageStorageConfig
	Email    EmailConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
	PublicURL          string // site origin used for links in emails
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL        string
	Production bool
}

// PoolSize returns the connection pool limit for the deployment profile.
func (c DatabaseConfig) PoolSize() int32 {
	if c.Production {
		return 10
	}
	return 5
}

// RedisConfig holds Redis connection settings. An empty Addr disables caching and the booking queue.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL int // seconds
}

// ImageStorageConfig holds S3 settings for event images.
type ImageStorageConfig struct {
	Region        string
	AccessKeyID   string
	SecretKey     string
	Bucket        string
	Folder        string
	Endpoint      string // optional, S3-compatible hosts
	PublicBaseURL string // optional, e.g. a CDN in front of the bucket
}

// Configured reports whether every required image storage credential is present.
func (c ImageStorageConfig) Configured() bool {
	return c.Region != "" && c.AccessKeyID != "" && c.SecretKey != "" && c.Bucket != ""
}

// EmailConfig for booking confirmations.
type EmailConfig struct {
	Provider           string // "ses" or "noop"
	FromAddress        string
	FromName           string
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
}

// AuthConfig holds organizer token settings. Empty secret leaves organizer routes open.
type AuthConfig struct {
	OrganizerSecret string
}

// Load reads configuration from environment, with optional .env file.
// DATABASE_URL is required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")
	cfg := &Config{
		Env: env,
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			PublicURL:          strings.TrimRight(getEnv("APP_PUBLIC_URL", "http://localhost:3000"), "/"),
		},
		Database: DatabaseConfig{
			URL:        os.Getenv("DATABASE_URL"),
			Production: env == "production",
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: getEnvInt("CACHE_TTL_SEC", 3600),
		},
		Images: ImageStorageConfig{
			Region:        os.Getenv("IMAGE_STORAGE_REGION"),
			AccessKeyID:   os.Getenv("IMAGE_STORAGE_ACCESS_KEY"),
			SecretKey:     os.Getenv("IMAGE_STORAGE_SECRET_KEY"),
			Bucket:        os.Getenv("IMAGE_STORAGE_BUCKET"),
			Folder:        getEnv("IMAGE_FOLDER", "DevEvent"),
			Endpoint:      os.Getenv("IMAGE_STORAGE_ENDPOINT"),
			PublicBaseURL: strings.TrimRight(os.Getenv("IMAGE_PUBLIC_BASE_URL"), "/"),
		},
		Email: EmailConfig{
			Provider:           getEnv("EMAIL_PROVIDER", "noop"),
			FromAddress:        getEnv("EMAIL_FROM_ADDRESS", "noreply@devevent.local"),
			FromName:           getEnv("EMAIL_FROM_NAME", "DevEvent"),
			SESRegion:          getEnv("SES_REGION", "us-east-1"),
			SESAccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
			SESSecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
		},
		Auth: loadAuth(),
	}
	if cfg.Database.URL == "" {
		return nil, apperr.Configuration("missing DATABASE_URL environment variable")
	}
	return cfg, nil
}

// LoadAuth reads only the organizer token settings, for tools that sign
// tokens without touching the database. The secret is required here.
func LoadAuth() (AuthConfig, error) {
	_ = godotenv.Load()
	a := loadAuth()
	if a.OrganizerSecret == "" {
		return a, apperr.Configuration("missing ORGANIZER_JWT_SECRET environment variable")
	}
	return a, nil
}

func loadAuth() AuthConfig {
	return AuthConfig{OrganizerSecret: os.Getenv("ORGANIZER_JWT_SECRET")}
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
