package config

import (
	"os"      // For environment variables
	"strconv" // For string to number conversion
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"    // MySQL through gorm.io/driver/mysql
	DriverPostgres = "postgres" // PostgreSQL through gorm.io/driver/postgres
	DriverSQLite   = "sqlite"   // Embedded SQLite for development and tests
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBDriver        string        // Database driver: mysql, postgres or sqlite
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	DBPath          string        // SQLite file path
	JWTSecret       string        // JWT secret key
	JWTTTL          time.Duration // Token lifetime
	JWTIssuer       string        // Expected token issuer (optional)
	JWTAudience     string        // Expected token audience (optional)
	RedisAddr       string        // Redis server address
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	CacheTTL        time.Duration // TTL of cached responses
	LoginRate       float64       // Login/register requests per second per client
	LoginBurst      int           // Login/register burst per client
	ShutdownTimeout time.Duration // Graceful shutdown timeout
	LogLevel        string        // Logrus level
	IsProd          bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", DriverSQLite),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          os.Getenv("DB_PORT"),
		DBName:          getEnv("DB_NAME", "blog"),
		DBPath:          getEnv("DB_PATH", "blog.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          getDuration("JWT_TTL", 24*time.Hour),
		JWTIssuer:       os.Getenv("JWT_ISSUER"),
		JWTAudience:     os.Getenv("JWT_AUDIENCE"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:       os.Getenv("REDIS_PASS"),
		RedisDB:         getInt("REDIS_DB", 0),
		CacheTTL:        getDuration("CACHE_TTL", 60*time.Second),
		LoginRate:       getFloat("LOGIN_RATE_PER_SEC", 1),
		LoginBurst:      getInt("LOGIN_BURST", 5),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		IsProd:          os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// getEnv returns the variable or the fallback when it is unset or empty
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
