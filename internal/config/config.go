package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	PostgreSQL PostgreSQLConfig
	Redis      RedisConfig
	Catalog    CatalogConfig
	Search     SearchConfig
	Chat       ChatConfig
	Valuation  ValuationConfig
	Contact    ContactConfig
	Newsletter NewsletterConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Logging    LoggingConfig
	OpenAI     OpenAIConfig
	Metrics    MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	StaticDir      string
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, wins over the discrete fields
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// RedisConfig holds Redis configuration for the snapshot catalog store
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	CatalogKey string
}

// Catalog backends
const (
	CatalogBackendMemory   = "memory"
	CatalogBackendRedis    = "redis"
	CatalogBackendPostgres = "postgres"
)

// CatalogConfig selects where the admin catalog lives
type CatalogConfig struct {
	Backend string
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	Delay       time.Duration
	HistorySize int
}

// ChatConfig holds chat assistant configuration
type ChatConfig struct {
	MinDelay      time.Duration
	MaxDelay      time.Duration
	FollowUpDelay time.Duration
	SessionTTL    time.Duration
}

// ValuationConfig holds valuation calculator configuration
type ValuationConfig struct {
	Delay         time.Duration
	ReferenceYear int
}

// ContactConfig holds contact form configuration
type ContactConfig struct {
	Delay time.Duration
}

// NewsletterConfig holds newsletter signup configuration
type NewsletterConfig struct {
	Delay time.Duration
}

// AuthConfig holds mock authentication configuration
type AuthConfig struct {
	AdminEmail string
	JWTSecret  string
	JWTTTL     time.Duration
}

// RateLimitConfig holds per-client rate limits for the interactive endpoints
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// OpenAIConfig holds the optional generative text integration.
// Absence of an API key is the normal, fully supported path.
type OpenAIConfig struct {
	APIKey      string
	APIBase     string
	ChatModel   string
	Temperature float64
	MaxTokens   int
	Timeout     int
	Enabled     bool
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			StaticDir:      getEnv("STATIC_DIR", "./web/dist"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "estate"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			CatalogKey: getEnv("REDIS_CATALOG_KEY", "properties"),
		},
		Catalog: CatalogConfig{
			Backend: strings.ToLower(getEnv("CATALOG_BACKEND", CatalogBackendMemory)),
		},
		Search: SearchConfig{
			Delay:       getEnvAsDuration("SEARCH_DELAY", 2*time.Second),
			HistorySize: getEnvAsInt("SEARCH_HISTORY_SIZE", 5),
		},
		Chat: ChatConfig{
			MinDelay:      getEnvAsDuration("CHAT_MIN_DELAY", 1*time.Second),
			MaxDelay:      getEnvAsDuration("CHAT_MAX_DELAY", 3*time.Second),
			FollowUpDelay: getEnvAsDuration("CHAT_FOLLOW_UP_DELAY", 1*time.Second),
			SessionTTL:    getEnvAsDuration("CHAT_SESSION_TTL", 30*time.Minute),
		},
		Valuation: ValuationConfig{
			Delay:         getEnvAsDuration("VALUATION_DELAY", 3*time.Second),
			ReferenceYear: getEnvAsInt("VALUATION_REFERENCE_YEAR", 2024),
		},
		Contact: ContactConfig{
			Delay: getEnvAsDuration("CONTACT_DELAY", 2*time.Second),
		},
		Newsletter: NewsletterConfig{
			Delay: getEnvAsDuration("NEWSLETTER_DELAY", time.Second),
		},
		Auth: AuthConfig{
			AdminEmail: getEnv("ADMIN_EMAIL", "admin@estate.com"),
			JWTSecret:  getEnv("JWT_SECRET", "change-me"),
			JWTTTL:     getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 5),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			APIBase:     getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:   getEnv("OPENAI_CHAT_MODEL", "gpt-4"),
			Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 1000),
			Timeout:     getEnvAsInt("OPENAI_TIMEOUT", 30),
			Enabled:     getEnv("OPENAI_API_KEY", "") != "",
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted silently
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case CatalogBackendMemory, CatalogBackendRedis, CatalogBackendPostgres:
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q (want memory, redis or postgres)", c.Catalog.Backend)
	}
	if c.Chat.MaxDelay < c.Chat.MinDelay {
		return fmt.Errorf("CHAT_MAX_DELAY (%s) must not be below CHAT_MIN_DELAY (%s)", c.Chat.MaxDelay, c.Chat.MinDelay)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
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
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
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
		log.Printf("Warning: Invalid bool value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("1500ms", "2s") or a bare number of milliseconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
