package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list values
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort           string        // Application port
	APIPrefix         string        // Versioned prefix for the wallet routes
	DBDriver          string        // Database driver: mysql, postgres or sqlite
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	DBPath            string        // SQLite database file
	DBMaxIdleConns    int           // Maximum idle connections in the pool
	DBMaxOpenConns    int           // Maximum open connections in the pool
	DBConnMaxLifetime time.Duration // Maximum lifetime of a pooled connection
	RedisAddr         string        // Redis server address, empty disables caching
	RedisPass         string        // Redis password
	RedisDB           int           // Redis database number
	CacheTTL          time.Duration // Lifetime of cached wallets
	JWTSecret         string        // JWT secret key
	AuthRequired      bool          // Require a bearer token on wallet routes
	CORSOrigins       []string      // Allowed CORS origins
	IsProd            bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:           getEnv("APP_PORT", "8000"),                        // Application port
		APIPrefix:         getEnv("API_PREFIX", "/api/v1"),                   // Route prefix
		DBDriver:          getEnv("DB_DRIVER", "mysql"),                      // Database driver
		DBUser:            os.Getenv("DB_USER"),                              // Database user
		DBPassword:        os.Getenv("DB_PASSWORD"),                          // Database password
		DBHost:            getEnv("DB_HOST", "localhost"),                    // Database host
		DBPort:            os.Getenv("DB_PORT"),                              // Database port
		DBName:            os.Getenv("DB_NAME"),                              // Database name
		DBPath:            getEnv("DB_PATH", "wallet.db"),                    // SQLite file
		DBMaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),                // Idle pool size
		DBMaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 100),               // Open pool size
		DBConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour), // Connection lifetime
		RedisAddr:         os.Getenv("REDIS_ADDR"),                           // Redis server address
		RedisPass:         os.Getenv("REDIS_PASS"),                           // Redis password
		RedisDB:           getIntEnv("REDIS_DB", 0),                          // Redis database number
		CacheTTL:          getDurationEnv("CACHE_TTL", 60*time.Second),       // Cache lifetime
		JWTSecret:         os.Getenv("JWT_SECRET"),                           // JWT secret key
		AuthRequired:      os.Getenv("AUTH_REQUIRED") == "true",              // Bearer token gate
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),            // CORS origins
		IsProd:            os.Getenv("IS_PROD") == "true",                    // Is production environment
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
