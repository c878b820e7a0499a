package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Scheduling backend configuration
	Backend BackendConfig

	// Schedule listing configuration
	Listing ListingConfig

	// Staff session and draft workspace configuration
	Session SessionConfig

	// CORS configuration
	CORS CORSConfig

	// Security configuration
	Security SecurityConfig

	// Sign-in throttling
	RateLimit RateLimitConfig

	// Metrics configuration
	Metrics MetricsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret        string
	SessionExpiry time.Duration
}

// BackendConfig holds the scheduling REST service location
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// ListingConfig holds paging limits for the schedule table
type ListingConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// SessionConfig holds the staff cookie and workspace lifetime settings
type SessionConfig struct {
	CookieName      string
	CookieSecure    bool
	DraftTTL        time.Duration
	CleanupInterval time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	EnableRequestLog   bool
	EnableAuditLog     bool
	AuditRetentionDays int
	AuditPruneSchedule string // cron spec with seconds, empty disables the job
}

// RateLimitConfig holds sign-in throttling configuration
type RateLimitConfig struct {
	MaxEmailAttempts int
	EmailWindow      time.Duration
	MaxIPAttempts    int
	IPWindow         time.Duration
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 300, time.Second),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			SessionExpiry: getEnvAsDuration("JWT_SESSION_EXPIRY", 28800, time.Second),
		},
		Backend: BackendConfig{
			URL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:5000"), "/"),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT_SECONDS", 30, time.Second),
		},
		Listing: ListingConfig{
			DefaultLimit: getEnvAsInt("LISTING_DEFAULT_LIMIT", 10),
			MaxLimit:     getEnvAsInt("LISTING_MAX_LIMIT", 100),
		},
		Session: SessionConfig{
			CookieName:      getEnv("SESSION_COOKIE_NAME", "schedule_admin_session"),
			CookieSecure:    getEnvAsBool("SESSION_COOKIE_SECURE", false),
			DraftTTL:        getEnvAsDuration("DRAFT_TTL_MINUTES", 120, time.Minute),
			CleanupInterval: getEnvAsDuration("DRAFT_CLEANUP_MINUTES", 10, time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "Accept"}),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			EnableRequestLog:   getEnvAsBool("ENABLE_REQUEST_LOGGING", true),
			EnableAuditLog:     getEnvAsBool("ENABLE_AUDIT_LOGGING", true),
			AuditRetentionDays: getEnvAsInt("AUDIT_RETENTION_DAYS", 90),
			AuditPruneSchedule: getEnv("AUDIT_PRUNE_SCHEDULE", "0 30 3 * * *"),
		},
		RateLimit: RateLimitConfig{
			MaxEmailAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			EmailWindow:      getEnvAsDuration("LOGIN_WINDOW_MINUTES", 15, time.Minute),
			MaxIPAttempts:    getEnvAsInt("LOGIN_MAX_ATTEMPTS_PER_IP", 20),
			IPWindow:         getEnvAsDuration("LOGIN_IP_WINDOW_MINUTES", 60, time.Minute),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an http(s) URL, got %q", c.Backend.URL)
	}

	if c.Listing.DefaultLimit < 1 {
		return fmt.Errorf("LISTING_DEFAULT_LIMIT must be positive")
	}

	if c.Listing.MaxLimit < c.Listing.DefaultLimit {
		return fmt.Errorf("LISTING_MAX_LIMIT (%d) must not be below LISTING_DEFAULT_LIMIT (%d)",
			c.Listing.MaxLimit, c.Listing.DefaultLimit)
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}

	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	if c.RateLimit.MaxEmailAttempts < 1 || c.RateLimit.MaxIPAttempts < 1 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS and LOGIN_MAX_ATTEMPTS_PER_IP must be positive")
	}

	if c.Security.AuditRetentionDays < 1 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be positive")
	}

	return nil
}

// IsProduction reports whether the portal runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads an integer count of unit
func getEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * unit
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
