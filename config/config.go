// Package config loads and validates application configuration from
// environment variables. All problems found while loading are collected and
// reported together so a misconfigured process fails fast with a complete
// list instead of dying on the first missing variable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names recognised in ServerConfig.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DBConfig holds settings for the PostgreSQL connection pool.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxConns int
}

// AuthConfig holds authentication-related configuration. Access and refresh
// tokens are signed with distinct secrets so a leaked refresh secret cannot
// mint access tokens and vice versa.
type AuthConfig struct {
	AccessSecret         string
	RefreshSecret        string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	BcryptCost           int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string
	Environment   string
	AllowedOrigin string
}

// IsProduction reports whether the server runs with production cookie and
// transport attributes.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// RateLimitConfig holds the fixed-window limiter settings applied to the
// public auth endpoints.
type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

// StatsConfig holds the per-kind TTL for cached statistics.
type StatsConfig struct {
	CacheTTL time.Duration
}

// AdminConfig holds optional bootstrap credentials for seeding the first
// administrator account.
type AdminConfig struct {
	Email    string
	Password string
}

// AppConfig is the top-level configuration structure.
type AppConfig struct {
	DB        *DBConfig
	Auth      *AuthConfig
	Server    *ServerConfig
	RateLimit *RateLimitConfig
	Stats     *StatsConfig
	Admin     *AdminConfig
}

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s'", key, valueStr))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s'", key, valueStr))
		return defaultValue
	}
	return valueDuration
}

// LoadConfig reads all configuration from the environment. It returns a
// single aggregated error when anything required is missing or malformed.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	dbMaxConns := getOptionalEnvInt("DB_POOL_SIZE", 10, &errs)
	if dbMaxConns < 1 {
		errs = append(errs, fmt.Sprintf("DB_POOL_SIZE must be positive, got %d", dbMaxConns))
		dbMaxConns = 10
	}

	accessSecret := getRequiredEnv("JWT_ACCESS_SECRET", &errs)
	refreshSecret := getRequiredEnv("JWT_REFRESH_SECRET", &errs)
	if accessSecret != "" && accessSecret == refreshSecret {
		errs = append(errs, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	accessTokenDuration := getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute, &errs)
	refreshTokenDuration := getOptionalEnvDuration("JWT_REFRESH_TOKEN_DURATION", 168*time.Hour, &errs)
	bcryptCost := getOptionalEnvInt("BCRYPT_COST", 10, &errs)
	if bcryptCost < 4 || bcryptCost > 31 {
		errs = append(errs, fmt.Sprintf("BCRYPT_COST must be between 4 and 31, got %d", bcryptCost))
		bcryptCost = 10
	}

	environment := getOptionalEnv("APP_ENV", EnvDevelopment)
	if environment != EnvDevelopment && environment != EnvProduction {
		errs = append(errs, fmt.Sprintf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, environment))
	}

	rateLimitWindow := getOptionalEnvDuration("RATE_LIMIT_WINDOW", time.Minute, &errs)
	rateLimitMax := getOptionalEnvInt("RATE_LIMIT_MAX", 20, &errs)
	statsCacheTTL := getOptionalEnvDuration("STATS_CACHE_TTL", time.Minute, &errs)

	adminEmail := getOptionalEnv("ADMIN_EMAIL", "")
	adminPassword := getOptionalEnv("ADMIN_PASSWORD", "")
	if (adminEmail == "") != (adminPassword == "") {
		errs = append(errs, "ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB: &DBConfig{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			MaxConns: dbMaxConns,
		},
		Auth: &AuthConfig{
			AccessSecret:         accessSecret,
			RefreshSecret:        refreshSecret,
			AccessTokenDuration:  accessTokenDuration,
			RefreshTokenDuration: refreshTokenDuration,
			BcryptCost:           bcryptCost,
		},
		Server: &ServerConfig{
			Port:          getOptionalEnv("PORT", "8080"),
			Environment:   environment,
			AllowedOrigin: getOptionalEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
		RateLimit: &RateLimitConfig{Window: rateLimitWindow, Max: rateLimitMax},
		Stats:     &StatsConfig{CacheTTL: statsCacheTTL},
		Admin:     &AdminConfig{Email: adminEmail, Password: adminPassword},
	}, nil
}
