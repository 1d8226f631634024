package config

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevelopmentSecretKey is the base64 signing key used when AUTH_SECRET_KEY is unset.
// It is rejected in production.
const DevelopmentSecretKey = "ZGV2ZWxvcG1lbnQtb25seS1zZWNyZXQta2V5LWNoYW5nZS1tZQ=="

// minSecretKeyBytes is the smallest accepted HMAC key (HS256 block of entropy)
const minSecretKeyBytes = 32

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Redis         RedisConfig
	Throttle      ThrottleConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL when set
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	InitSchema       bool
}

// AuthConfig holds session token and cookie settings. It is built once at
// startup and never mutated afterwards.
type AuthConfig struct {
	SecretKeyBase64      string
	SecretKey            []byte // decoded from SecretKeyBase64 by Validate
	TokenTTL             time.Duration
	CookieName           string
	CookieSecure         bool // false until the service runs behind TLS
	PrincipalLoadTimeout time.Duration
	BcryptCost           int
}

// RedisConfig holds the Redis connection used for login throttling.
// An empty Addr disables throttling.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ThrottleConfig holds failed-login throttling limits
type ThrottleConfig struct {
	MaxLoginAttempts int
	LoginWindow      time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*"}),
		},
		Database: loadDatabaseConfig(),
		Auth: AuthConfig{
			SecretKeyBase64:      getEnv("AUTH_SECRET_KEY", DevelopmentSecretKey),
			TokenTTL:             time.Duration(getEnvAsInt("AUTH_TOKEN_TTL_MS", 86400000)) * time.Millisecond,
			CookieName:           getEnv("AUTH_COOKIE_NAME", "sessionToken"),
			CookieSecure:         getEnvAsBool("AUTH_COOKIE_SECURE", false),
			PrincipalLoadTimeout: getEnvAsDuration("AUTH_PRINCIPAL_LOAD_TIMEOUT", 2*time.Second),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Throttle: ThrottleConfig{
			MaxLoginAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginWindow:      getEnvAsDuration("LOGIN_WINDOW", 15*time.Minute),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set.
// It also decodes the auth secret key.
func (c *Config) Validate() error {
	if c.Database.ConnectionString == "" && c.Database.Host == "" {
		return fmt.Errorf("database configuration required: set DATABASE_URL or DB_HOST")
	}
	if c.Database.ConnectionString == "" {
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if err := c.Auth.validate(); err != nil {
		return err
	}
	if c.IsProduction() && c.Auth.SecretKeyBase64 == DevelopmentSecretKey {
		return fmt.Errorf("AUTH_SECRET_KEY must be set in production")
	}

	if c.Throttle.MaxLoginAttempts <= 0 {
		return fmt.Errorf("login max attempts must be positive")
	}
	if c.Throttle.LoginWindow <= 0 {
		return fmt.Errorf("login window must be positive")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

func (a *AuthConfig) validate() error {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(a.SecretKeyBase64))
	if err != nil {
		return fmt.Errorf("auth secret key is not valid base64: %w", err)
	}
	if len(key) < minSecretKeyBytes {
		return fmt.Errorf("auth secret key must decode to at least %d bytes, got %d", minSecretKeyBytes, len(key))
	}
	a.SecretKey = key

	if a.TokenTTL <= 0 {
		return fmt.Errorf("auth token TTL must be positive")
	}
	if a.CookieName == "" {
		return fmt.Errorf("auth cookie name is required")
	}
	if a.PrincipalLoadTimeout <= 0 {
		return fmt.Errorf("principal load timeout must be positive")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// ThrottleEnabled reports whether a Redis instance is configured for login throttling
func (c *Config) ThrottleEnabled() bool {
	return c.Redis.Addr != ""
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

func loadDatabaseConfig() DatabaseConfig {
	initSchema := getEnvAsBool("DB_INIT_SCHEMA", true)
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return DatabaseConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			InitSchema:       initSchema,
		}
	}
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "registration"),
		Password:        getEnv("DB_PASSWORD", "registration"),
		Database:        getEnv("DB_NAME", "registration"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		InitSchema:      initSchema,
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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

func getEnvAsBool(key string, defaultValue bool) bool {
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
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

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
