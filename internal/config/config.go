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
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Security SecurityConfig
	Payment  PaymentConfig
	Mail     MailConfig
	Booking  BookingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
	Timezone    string // IANA name used for day boundaries and cutoffs
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
	Secret      string
	TokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost       int
	EnableRequestLog bool
}

// PaymentConfig holds payment-provider configuration
type PaymentConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// MailConfig holds email-provider configuration.
// Mode "dev" logs messages instead of calling the provider.
type MailConfig struct {
	Mode        string
	APIURL      string
	APIKey      string
	FromAddress string
	FromName    string
}

// BookingConfig holds booking-window and sweep tuning
type BookingConfig struct {
	CutoffMinutes          int // booking disabled this close to departure
	ArrivalGraceMinutes    int // listings keep a segment this long past arrival
	CancellationTTLMinutes int // payment cancellation flag lifetime
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
			Timezone:    getEnv("SERVER_TIMEZONE", "Local"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", ""),
			TokenExpiry: time.Duration(getEnvAsInt("JWT_TOKEN_EXPIRY", 86400)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Security: SecurityConfig{
			BcryptCost:       getEnvAsInt("BCRYPT_COST", 12),
			EnableRequestLog: getEnvAsBool("ENABLE_REQUEST_LOGGING", true),
		},
		Payment: PaymentConfig{
			BaseURL: getEnv("PAYMENT_PROVIDER_URL", ""),
			APIKey:  getEnv("PAYMENT_PROVIDER_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("PAYMENT_PROVIDER_TIMEOUT", 30)) * time.Second,
		},
		Mail: MailConfig{
			Mode:        getEnv("MAIL_MODE", "dev"),
			APIURL:      getEnv("MAIL_API_URL", ""),
			APIKey:      getEnv("MAIL_API_KEY", ""),
			FromAddress: getEnv("MAIL_FROM_ADDRESS", "no-reply@roadlink.app"),
			FromName:    getEnv("MAIL_FROM_NAME", "RoadLink Bookings"),
		},
		Booking: BookingConfig{
			CutoffMinutes:          getEnvAsInt("BOOKING_CUTOFF_MINUTES", 30),
			ArrivalGraceMinutes:    getEnvAsInt("ARRIVAL_GRACE_MINUTES", 60),
			CancellationTTLMinutes: getEnvAsInt("PAYMENT_CANCELLATION_TTL_MINUTES", 30),
		},
	}

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

	if c.Mail.Mode == "production" {
		if c.Mail.APIURL == "" {
			return fmt.Errorf("MAIL_API_URL is required in production mail mode")
		}
		if c.Mail.APIKey == "" {
			return fmt.Errorf("MAIL_API_KEY is required in production mail mode")
		}
	}

	if c.Payment.BaseURL == "" && c.Server.Environment == "production" {
		return fmt.Errorf("PAYMENT_PROVIDER_URL is required in production")
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid SERVER_TIMEZONE: %w", err)
	}

	return nil
}

// Location resolves the configured reference time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Server.Timezone)
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
