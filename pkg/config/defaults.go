// Package config provides centralized default values for the zapform
// analytics runtime. All values are resolved once at startup from the
// environment, with an optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
	})
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// PublicBaseURL is the externally visible base URL of this service. It is
	// substituted into the served tracking script, so it must be the address
	// third-party pages can actually reach.
	PublicBaseURL string

	// Database Configuration
	DBDriver                 string
	DBDataSource             string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Session Configuration
	SessionIdleExpiry time.Duration

	// Ingestion limits
	ElementTextMaxLength int

	// Cache lifetimes (also advertised to clients via Cache-Control)
	ActiveActionsTTL  time.Duration
	TrackingScriptTTL time.Duration

	// Sysop Configuration
	SysopPasswordHash string
	SysopJWTSecret    string
	SysopTokenTTL     time.Duration

	// Logging Configuration
	LogJSONFormat bool
	LogLevel      string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	PublicBaseURL = getEnvString("PUBLIC_BASE_URL", "http://localhost:8080")

	// Database Configuration
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBDataSource = getEnvString("DB_DATA_SOURCE", "zapform.db")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Session Configuration
	SessionIdleExpiry = getEnvDuration("SESSION_IDLE_EXPIRY", 30*time.Minute)

	// Ingestion limits
	ElementTextMaxLength = getEnvInt("ELEMENT_TEXT_MAX_LENGTH", 100)

	// Cache lifetimes
	ActiveActionsTTL = getEnvDuration("ACTIVE_ACTIONS_TTL", 5*time.Minute)
	TrackingScriptTTL = getEnvDuration("TRACKING_SCRIPT_TTL", time.Hour)

	// Sysop Configuration
	SysopPasswordHash = getEnvString("SYSOP_PASSWORD_HASH", "")
	SysopJWTSecret = getEnvString("SYSOP_JWT_SECRET", "")
	SysopTokenTTL = getEnvDuration("SYSOP_TOKEN_TTL", 12*time.Hour)

	// Logging Configuration
	LogJSONFormat = getEnvBool("LOG_JSON_FORMAT", true)
	LogLevel = getEnvString("LOG_LEVEL", "INFO")
}
