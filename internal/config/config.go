package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Session  SessionConfig
	Payment  PaymentConfig
	Storage  StorageConfig
	CORS     CORSConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// AdminEmail receives the admin role when its account is created.
	AdminEmail    string
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	BcryptCost    int
}

// SessionConfig holds the cookie session configuration.
type SessionConfig struct {
	Backend      string // "memory" or "redis"
	CookieName   string
	CookieSecure bool
	TTL          time.Duration
	RedisAddr    string
	RedisPass    string
	RedisDB      int
}

// Payment modes.
const (
	PaymentModeWebpay    = "webpay"
	PaymentModeSimulated = "simulated"
)

// PaymentConfig holds the payment gateway configuration.
type PaymentConfig struct {
	Mode         string // "webpay" or "simulated"
	Environment  string // "integration" or "production"
	BaseURL      string // optional override of the environment URL
	CommerceCode string
	APIKey       string
	Timeout      time.Duration
	// ReturnURL is where the gateway sends the browser for the server payment path.
	ReturnURL string
	// WholesaleReturnURL is the return URL used by the wholesale checkout.
	WholesaleReturnURL string
}

// StorageConfig holds object storage configuration for product images and catalogue feeds.
type StorageConfig struct {
	S3Enabled     bool
	Bucket        string
	Region        string
	Prefix        string // Path prefix within bucket (e.g., "productos/")
	PublicBaseURL string
	LocalDir      string
	LocalBaseURL  string
	MaxUploadMB   int
}

// CORSConfig holds the allowed browser origins.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "autopartes"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			AdminEmail:    strings.ToLower(getEnv("ADMIN_EMAIL", "")),
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTL:      getEnvAsDuration("JWT_TTL", 24*time.Hour),
			ResetTokenTTL: getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),
			BcryptCost:    getEnvAsInt("BCRYPT_COST", 10),
		},
		Session: SessionConfig{
			Backend:      getEnv("SESSION_BACKEND", "memory"),
			CookieName:   getEnv("SESSION_COOKIE", "sessionId"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			TTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPass:    getEnv("REDIS_PASSWORD", ""),
			RedisDB:      getEnvAsInt("REDIS_DB", 0),
		},
		Payment: PaymentConfig{
			Mode:               getEnv("PAYMENT_MODE", PaymentModeSimulated),
			Environment:        getEnv("WEBPAY_ENVIRONMENT", "integration"),
			BaseURL:            getEnv("WEBPAY_BASE_URL", ""),
			CommerceCode:       getEnv("WEBPAY_COMMERCE_CODE", "597055555532"),
			APIKey:             getEnv("WEBPAY_API_KEY", "579B532A7440BB0C9079DED94D31EA1615BACEB56610332264630D42D0A36B1C"),
			Timeout:            getEnvAsDuration("WEBPAY_TIMEOUT", 30*time.Second),
			ReturnURL:          getEnv("WEBPAY_RETURN_URL", "http://localhost:8080/api/webpay/confirm"),
			WholesaleReturnURL: getEnv("WEBPAY_WHOLESALE_RETURN_URL", "http://localhost:8080/api/mayorista/checkout/retorno"),
		},
		Storage: StorageConfig{
			S3Enabled:     getEnvAsBool("S3_ENABLED", false),
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Prefix:        getEnv("S3_PREFIX", "productos/"),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
			LocalDir:      getEnv("STORAGE_LOCAL_DIR", "data/uploads"),
			LocalBaseURL:  getEnv("STORAGE_LOCAL_BASE_URL", "/uploads/"),
			MaxUploadMB:   getEnvAsInt("STORAGE_MAX_UPLOAD_MB", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.Auth.AdminEmail == "" {
		return fmt.Errorf("admin email is required")
	}

	if _, err := c.Logger.ParseLevel(); err != nil {
		return err
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Session.Backend != "memory" && c.Session.Backend != "redis" {
		return fmt.Errorf("invalid session backend: %s (must be memory or redis)", c.Session.Backend)
	}

	if c.Session.Backend == "redis" && c.Session.RedisAddr == "" {
		return fmt.Errorf("redis address is required when the redis session backend is selected")
	}

	switch c.Payment.Mode {
	case PaymentModeSimulated:
	case PaymentModeWebpay:
		if c.Payment.Environment != "integration" && c.Payment.Environment != "production" {
			return fmt.Errorf("invalid webpay environment: %s (must be integration or production)", c.Payment.Environment)
		}
		if c.Payment.CommerceCode == "" || c.Payment.APIKey == "" {
			return fmt.Errorf("webpay commerce code and API key are required")
		}
	default:
		return fmt.Errorf("invalid payment mode: %s (must be webpay or simulated)", c.Payment.Mode)
	}

	if c.Storage.S3Enabled {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.Storage.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
