package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs, resolved once at startup and
// passed down explicitly (no package-level globals).
type Config struct {
	Port           string
	AllowedOrigins string
	BodyLimitBytes int

	// Postgres DSN plus pool bounds. Pool exhaustion blocks callers until
	// StorageTimeout and then surfaces as 503.
	DatabaseDSN       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	StorageTimeout    time.Duration

	// Identity provider. The signing algorithm is pinned here, never taken
	// from a token header.
	JWKSURL          string
	JWKSRefresh      time.Duration
	JWKSFetchTimeout time.Duration
	TokenAlgorithm   string
}

// Load reads .env (if present) and the environment. Missing optional values
// fall back to defaults; DATABASE_URL and AUTH_JWKS_URL have none on purpose
// so a misconfigured deployment fails at startup, not on first request.
func Load() Config {
	// .env is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	bodyLimit := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimit <= 0 {
		bodyLimit = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	return Config{
		Port:           envStr("PORT", "8080"),
		AllowedOrigins: envStr("ALLOWED_ORIGINS", "*"),
		BodyLimitBytes: bodyLimit,

		DatabaseDSN:       os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME_SECONDS", 30*time.Minute),
		StorageTimeout:    envDuration("STORAGE_TIMEOUT_SECONDS", 5*time.Second),

		JWKSURL:          os.Getenv("AUTH_JWKS_URL"),
		JWKSRefresh:      envDuration("JWKS_REFRESH_SECONDS", time.Hour),
		JWKSFetchTimeout: envDuration("JWKS_FETCH_TIMEOUT_SECONDS", 10*time.Second),
		TokenAlgorithm:   envStr("TOKEN_ALGORITHM", "EdDSA"),
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
