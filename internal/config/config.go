package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Unlock session tokens
	JWTSecret      string
	UnlockTokenTTL time.Duration

	// Secure store encryption key (32 bytes, hex or raw)
	SecureStoreKey string

	// Biometric challenge
	BiometricTimeout time.Duration

	// Notifications
	NotificationsEnabled bool
	NotifyWebhookURL     string
	MonthlySummaryHour   int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fintrack"),
		DBPassword: getEnv("DB_PASSWORD", "fintrack"),
		DBName:     getEnv("DB_NAME", "fintrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:      getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		SecureStoreKey: getEnv("SECURE_STORE_KEY", "0123456789abcdef0123456789abcdef"),

		NotificationsEnabled: getEnv("NOTIFICATIONS_ENABLED", "true") == "true",
		NotifyWebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
	}

	config.UnlockTokenTTL = getDurationEnv("UNLOCK_TOKEN_TTL", 12*time.Hour)
	config.BiometricTimeout = getDurationEnv("BIOMETRIC_TIMEOUT", 30*time.Second)
	config.MonthlySummaryHour = getIntEnv("MONTHLY_SUMMARY_HOUR", 9)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, falling back to %s\n", key, v, defaultValue)
		return defaultValue
	}
	return d
}

func getIntEnv(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, falling back to %d\n", key, v, defaultValue)
		return defaultValue
	}
	return n
}
