package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/taskd/pkg/jwtx"
)

type Config struct {
	Issuer              string        // Optional: issuer claim for tokens (default: taskd)
	Algorithm           string        // Optional: JWT signing algorithm (EdDSA, HS256) (default: EdDSA)
	NumKeys             int           // Optional: number of EdDSA signing keys (default: 3, max: 10)
	HMACSecret          string        // Required for HS256: shared secret, at least 32 bytes
	TokenTTL            time.Duration // Optional: session token lifetime (default: 1h)
	DatabaseFile        string        // Optional: path to SQLite database file (default: ./taskd.db)
	PepperFile          string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "taskd"),
		Algorithm:           getEnvOrDefault("AUTH_ALGORITHM", jwtx.AlgorithmEdDSA),
		NumKeys:             getEnvIntOrDefault("AUTH_NUM_KEYS", 0), // 0 lets the KeyManager pick
		HMACSecret:          os.Getenv("AUTH_HMAC_SECRET"),
		TokenTTL:            getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultSessionTTL),
		DatabaseFile:        getEnvOrDefault("TASKD_DATABASE_FILE", "taskd.db"),
		PepperFile:          getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
