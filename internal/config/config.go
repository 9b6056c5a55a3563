// Package config loads the storefront configuration from the environment,
// with an optional .env file for development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	Port string

	// Upstream provider.
	ProviderBaseURL  string
	ProviderTokenURL string
	ClientID         string
	ClientSecret     string
	FetchLimit       int

	// Persistent cache backend: file (default), redis or postgres.
	StorageBackend string
	StorageDir     string
	RedisAddr      string
	RedisPassword  string
	DatabaseURL    string

	MetricsEnabled bool
	MetricsToken   string
}

// Load reads the environment, after merging an optional .env file. A
// missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getenv("PORT", "8080"),

		ProviderBaseURL:  getenv("PROVIDER_BASE_URL", "http://localhost:4000"),
		ProviderTokenURL: getenv("PROVIDER_TOKEN_URL", "http://localhost:4000/token"),
		ClientID:         getenv("PROVIDER_CLIENT_ID", "storefront-dev"),
		ClientSecret:     getenv("PROVIDER_CLIENT_SECRET", "storefront-dev-secret"),
		FetchLimit:       getint("PROVIDER_FETCH_LIMIT", 50),

		StorageBackend: getenv("STORAGE_BACKEND", StorageFile),
		StorageDir:     getenv("STORAGE_DIR", "./data"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		DatabaseURL:    getenv("DATABASE_URL", ""),

		MetricsEnabled: getbool("METRICS_ENABLED", false),
		MetricsToken:   getenv("METRICS_TOKEN", ""),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getbool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
