package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"moments-backend/internal/infrastructure/database"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config is the whole application configuration, populated from env.
type Config struct {
	App      AppConfig
	Database *database.DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
	Worker   WorkerConfig
	Limits   LimitsConfig
	Feed     FeedConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	CORSOrigins []string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type MinIOConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	AttachmentBucket string
	AvatarBucket     string
	UseSSL           bool
}

type WorkerConfig struct {
	Concurrency int
	HealthPort  string

	// ExpiryCron drives the moment expiry sweep (standard 5-field spec).
	ExpiryCron string

	NotificationCleanupCron string
	NotificationRetention   int // days
}

// LimitsConfig controls per-user quotas and per-IP throttling.
type LimitsConfig struct {
	MomentBase          int
	MomentPerTrustLevel int
	MomentVerifiedBonus int
	MomentWindow        time.Duration

	ApplyBase          int
	ApplyPerTrustLevel int
	ApplyWindow        time.Duration

	IPRequestsPerSecond float64
	IPBurst             int
}

type FeedConfig struct {
	DefaultLimit      int
	MaxLimit          int
	EndingSoonMinutes int
	PostPageSize      int
}

func Load() (*Config, error) {
	dbCfg, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Moments API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		},
		Database: dbCfg,
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry:  time.Duration(getEnvInt("JWT_ACCESS_EXPIRY", 15)) * time.Minute,
			RefreshTokenExpiry: time.Duration(getEnvInt("JWT_REFRESH_EXPIRY", 72)) * time.Hour,
		},
		MinIO: MinIOConfig{
			Endpoint:         getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:        getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:        getEnv("MINIO_SECRET_KEY", "minioadmin"),
			AttachmentBucket: getEnv("MINIO_ATTACHMENT_BUCKET", "post-attachments"),
			AvatarBucket:     getEnv("MINIO_AVATAR_BUCKET", "avatars"),
			UseSSL:           getEnvBool("MINIO_USE_SSL", false),
		},
		Worker: WorkerConfig{
			Concurrency:             getEnvInt("WORKER_CONCURRENCY", 10),
			HealthPort:              getEnv("WORKER_HEALTH_PORT", "9999"),
			ExpiryCron:              getEnv("WORKER_EXPIRY_CRON", "* * * * *"),
			NotificationCleanupCron: getEnv("WORKER_NOTIFICATION_CLEANUP_CRON", "0 3 * * *"),
			NotificationRetention:   getEnvInt("WORKER_NOTIFICATION_RETENTION_DAYS", 30),
		},
		Limits: LimitsConfig{
			MomentBase:          getEnvInt("LIMIT_MOMENT_BASE", 3),
			MomentPerTrustLevel: getEnvInt("LIMIT_MOMENT_PER_TRUST", 2),
			MomentVerifiedBonus: getEnvInt("LIMIT_MOMENT_VERIFIED_BONUS", 2),
			MomentWindow:        getEnvDuration("LIMIT_MOMENT_WINDOW", 24*time.Hour),
			ApplyBase:           getEnvInt("LIMIT_APPLY_BASE", 10),
			ApplyPerTrustLevel:  getEnvInt("LIMIT_APPLY_PER_TRUST", 5),
			ApplyWindow:         getEnvDuration("LIMIT_APPLY_WINDOW", time.Hour),
			IPRequestsPerSecond: getEnvFloat("LIMIT_IP_RPS", 20),
			IPBurst:             getEnvInt("LIMIT_IP_BURST", 40),
		},
		Feed: FeedConfig{
			DefaultLimit:      getEnvInt("FEED_DEFAULT_LIMIT", 20),
			MaxLimit:          getEnvInt("FEED_MAX_LIMIT", 50),
			EndingSoonMinutes: getEnvInt("FEED_ENDING_SOON_MINUTES", 60),
			PostPageSize:      getEnvInt("FEED_POST_PAGE_SIZE", 20),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Worker.ExpiryCron); err != nil {
		return fmt.Errorf("invalid WORKER_EXPIRY_CRON %q: %w", c.Worker.ExpiryCron, err)
	}
	if _, err := parser.Parse(c.Worker.NotificationCleanupCron); err != nil {
		return fmt.Errorf("invalid WORKER_NOTIFICATION_CLEANUP_CRON %q: %w", c.Worker.NotificationCleanupCron, err)
	}

	if c.Feed.DefaultLimit <= 0 || c.Feed.DefaultLimit > c.Feed.MaxLimit {
		return fmt.Errorf("FEED_DEFAULT_LIMIT must be between 1 and FEED_MAX_LIMIT")
	}

	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
