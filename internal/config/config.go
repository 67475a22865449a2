package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// document store
	Store          string // "mongo" or "memory"
	MongoURI       string
	MongoDatabase  string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	StoreTimeout   time.Duration

	// list cache
	CacheBackend  string // "memory", "redis" or "none"
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// auth is enabled only when JWTSecret is set
	JWTSecret           string
	JWTAccessTTLMinutes int
	AdminEmail          string
	AdminPassword       string
	AdminName           string

	CORSOrigins  []string
	MaxBodyBytes int64
	LogFile      string

	OTLPEndpoint string
	ServiceName  string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		Store:          strings.ToLower(getEnv("STORE", "mongo")),
		MongoURI:       getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:  getEnv("MONGO_DB", "admindash"),
		ConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		MaxPoolSize:    uint64(getEnvInt("MONGO_MAX_POOL_SIZE", 20)),
		StoreTimeout:   getEnvDuration("STORE_TIMEOUT", 5*time.Second),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Second),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 60),
		AdminEmail:          getEnv("ADMIN_EMAIL", ""),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		AdminName:           getEnv("ADMIN_NAME", "Administrator"),

		CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		LogFile:      getEnv("LOG_FILE", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "admindash"),
	}
}

func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func (c Config) TracingEnabled() bool {
	return c.OTLPEndpoint != ""
}

func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
			return fallback
		}
		return d
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
