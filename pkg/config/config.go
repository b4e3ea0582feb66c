package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Env        string
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Scheduling SchedulingConfig
	Breaker    BreakerConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	// Enabled turns on the type directory cache and cross-instance slot events
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Slot store backends
const (
	SlotStorePostgres = "postgres"
	SlotStoreMemory   = "memory"
)

// SchedulingConfig holds slot assignment and rebooking configuration
type SchedulingConfig struct {
	// SlotStore selects the slot pool backend: "postgres" or "memory".
	SlotStore string
	// RebookBufferMinutes is the gap enforced between committed slots when rebooking.
	RebookBufferMinutes int
	// TypeCacheTTLSeconds is how long the examination type directory stays cached.
	TypeCacheTTLSeconds int
	// SeedDays is how many days of slots the memory store and seeder generate.
	SeedDays int
}

// BreakerConfig holds circuit breaker settings for slot pool reads
type BreakerConfig struct {
	MaxFailures        int
	OpenTimeoutSeconds int
}

// OpenTimeout returns the open-state duration
func (c *BreakerConfig) OpenTimeout() time.Duration {
	return time.Duration(c.OpenTimeoutSeconds) * time.Second
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("ENV", "production"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "screening_scheduler"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Scheduling: SchedulingConfig{
			SlotStore:           getEnv("SCHEDULING_SLOT_STORE", SlotStorePostgres),
			RebookBufferMinutes: getEnvAsInt("SCHEDULING_REBOOK_BUFFER_MINUTES", 30),
			TypeCacheTTLSeconds: getEnvAsInt("SCHEDULING_TYPE_CACHE_TTL_SECONDS", 300),
			SeedDays:            getEnvAsInt("SCHEDULING_SEED_DAYS", 7),
		},
		Breaker: BreakerConfig{
			MaxFailures:        getEnvAsInt("BREAKER_MAX_FAILURES", 5),
			OpenTimeoutSeconds: getEnvAsInt("BREAKER_OPEN_TIMEOUT_SECONDS", 30),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "screening-scheduler"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Scheduling.SlotStore {
	case SlotStorePostgres, SlotStoreMemory:
	default:
		return fmt.Errorf("unsupported SCHEDULING_SLOT_STORE %q", c.Scheduling.SlotStore)
	}
	if c.Scheduling.RebookBufferMinutes < 0 {
		return fmt.Errorf("SCHEDULING_REBOOK_BUFFER_MINUTES must not be negative")
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
