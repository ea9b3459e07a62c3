package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for learn-engine.
//
// Credentials are deliberately optional: a missing DATABASE_DSN switches the
// service into demo mode (static sample payloads, writes rejected with 503),
// a missing OPENAI_API_KEY switches challenge generation to the fallback
// catalog, and a missing SENDGRID_API_KEY routes emails to the console.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	OpenAI    OpenAIConfig
	Auth      AuthConfig
	Email     EmailConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds PostgreSQL (Supabase) configuration.
// An empty DSN means the store is not configured.
type DatabaseConfig struct {
	DSN           string
	MigrationsDir string
	MaxOpenConns  int
	MaxIdleConns  int
}

// RedisConfig holds the optional Redis configuration used by the
// distributed rate-limit counter store
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// OpenAIConfig holds configuration for the challenge generation service.
// An empty APIKey means generation is not configured.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// AuthConfig holds the optional JWT verification secret. Identity is issued
// by the external provider; we only verify its tokens.
type AuthConfig struct {
	JWTSecret string
}

// EmailConfig holds email delivery configuration
type EmailConfig struct {
	SendGridKey string
	FromAddress string
	FromName    string
	AdminEmail  string
}

// CatalogConfig holds the optional catalog overlay directory
type CatalogConfig struct {
	Dir string
}

// RateLimitConfig holds fixed-window rate limit settings.
// Generation gets a tighter budget than the rest of the API.
type RateLimitConfig struct {
	Requests         int
	Window           time.Duration
	GenerateRequests int
	GenerateWindow   time.Duration
}

// Load loads configuration from environment variables, reading an optional
// .env file first
func Load() (*Config, error) {
	// A missing .env is fine; it is a local development convenience.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			DSN:           getEnv("DATABASE_DSN", ""),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),
			MaxOpenConns:  getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 1024),
			Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		},
		Email: EmailConfig{
			SendGridKey: getEnv("SENDGRID_API_KEY", ""),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "noreply@skillforge.dev"),
			FromName:    getEnv("EMAIL_FROM_NAME", "SkillForge"),
			AdminEmail:  getEnv("EMAIL_ADMIN_ADDRESS", "courses@skillforge.dev"),
		},
		Catalog: CatalogConfig{
			Dir: getEnv("CATALOG_DIR", ""),
		},
		RateLimit: RateLimitConfig{
			Requests:         getEnvAsInt("RATE_LIMIT_REQUESTS", 120),
			Window:           getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
			GenerateRequests: getEnvAsInt("RATE_LIMIT_GENERATE_REQUESTS", 10),
			GenerateWindow:   getEnvAsDuration("RATE_LIMIT_GENERATE_WINDOW", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.OpenAI.MaxTokens < 1 {
		return fmt.Errorf("invalid OpenAI max tokens: %d", c.OpenAI.MaxTokens)
	}

	if c.RateLimit.Requests < 1 || c.RateLimit.GenerateRequests < 1 {
		return fmt.Errorf("rate limit request budgets must be positive")
	}

	return nil
}

// StoreConfigured reports whether the external relational store is configured
func (c *Config) StoreConfigured() bool {
	return c.Database.DSN != ""
}

// GenerationConfigured reports whether the generation service is configured
func (c *Config) GenerationConfigured() bool {
	return c.OpenAI.APIKey != ""
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
