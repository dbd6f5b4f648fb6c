package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	App       AppConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Notify    NotifyConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string
	Port         string
	TimeoutRead  time.Duration
	TimeoutWrite time.Duration
	TimeoutIdle  time.Duration
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// EmailConfig holds email-related configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Duration time.Duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	Env     string
	Name    string
	Version string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	OverdueActionCron      string // e.g., "0 8 * * 1" (Monday 8 AM)
	StaleInspectionCron    string // e.g., "0 7 * * *" (Daily 7 AM)
	StaleInspectionMaxAge  time.Duration
	EnableOverdueSummary   bool
	EnableStaleReminders   bool
}

// NotifyConfig holds notification fan-out configuration
type NotifyConfig struct {
	// Role whose members receive critical-failure alerts
	AlertRole string
	// Base URL used to build deep links into the frontend, e.g.
	// https://safety.example.com/inspections
	InspectionLinkBase string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env if present; godotenv never overrides already-set variables
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnv("SERVER_PORT", "8080"),
			TimeoutRead:  getDurationEnv("SERVER_TIMEOUT_READ", 15*time.Second),
			TimeoutWrite: getDurationEnv("SERVER_TIMEOUT_WRITE", 15*time.Second),
			TimeoutIdle:  getDurationEnv("SERVER_TIMEOUT_IDLE", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "safetrack"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "safetrack_db"),
			SSLMode:         getEnv("DB_SSLMODE", "prefer"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Expiration: getDurationEnv("JWT_EXPIRATION", 24*time.Hour),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getIntEnv("CORS_MAX_AGE", 300),
		},
		RateLimit: RateLimitConfig{
			Enabled:  getBoolEnv("RATE_LIMIT_ENABLED", true),
			Requests: getIntEnv("RATE_LIMIT_REQUESTS", 100),
			Duration: getDurationEnv("RATE_LIMIT_DURATION", 1*time.Minute),
		},
		App: AppConfig{
			Env:     getEnv("APP_ENV", "development"),
			Name:    getEnv("APP_NAME", "SafeTrack"),
			Version: getEnv("APP_VERSION", "1.0.0"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scheduler: SchedulerConfig{
			OverdueActionCron:     getEnv("SCHEDULER_OVERDUE_ACTION_CRON", "0 8 * * 1"),   // Monday 8 AM
			StaleInspectionCron:   getEnv("SCHEDULER_STALE_INSPECTION_CRON", "0 7 * * *"), // Daily 7 AM
			StaleInspectionMaxAge: getDurationEnv("SCHEDULER_STALE_INSPECTION_MAX_AGE", 72*time.Hour),
			EnableOverdueSummary:  getBoolEnv("SCHEDULER_ENABLE_OVERDUE_SUMMARY", true),
			EnableStaleReminders:  getBoolEnv("SCHEDULER_ENABLE_STALE_REMINDERS", true),
		},
		Notify: NotifyConfig{
			AlertRole:          getEnv("NOTIFY_ALERT_ROLE", "safety_manager"),
			InspectionLinkBase: getEnv("NOTIFY_INSPECTION_LINK_BASE", "http://localhost:3000/inspections"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Database.Password == "" && c.App.Env == "production" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, v := range parts {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
