package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db"
	"github.com/senuthbros6699-eng/dialect/internal/repository/supabase"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/chat"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultAddress        = ":9090"
	defaultCacheDB        = 0
	defaultProfileTTL     = 10 * time.Minute
	defaultSessionIdleTTL = 30 * time.Minute
	dbMaxRetry            = 10
	dbRetryInterval       = 2 * time.Second
)

type config struct {
	Address        string
	ContextTimeout time.Duration
	LogLevel       string

	Database db.Config

	CacheAddr string
	CachePass string
	CacheDB   int

	Backend supabase.Config

	AuthRedirectURL string
	AvatarBaseURL   string
	ProfileCacheTTL time.Duration
	PersistTimeout  time.Duration
	ChatOrder       chat.Ordering
	SessionIdleTTL  time.Duration
}

// loadConfig reads .env when present, then the environment
func loadConfig() config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading the environment only")
	}

	return config{
		Address:        envString("SERVER_ADDRESS", defaultAddress),
		ContextTimeout: envSeconds("CONTEXT_TIMEOUT", defaultTimeout),
		LogLevel:       envString("LOG_LEVEL", "info"),
		Database: db.Config{
			Driver:        envString("DATABASE_DRIVER", db.DriverPostgres),
			Host:          os.Getenv("DATABASE_HOST"),
			Port:          os.Getenv("DATABASE_PORT"),
			User:          os.Getenv("DATABASE_USER"),
			Pass:          os.Getenv("DATABASE_PASS"),
			Name:          os.Getenv("DATABASE_NAME"),
			SSLMode:       os.Getenv("DATABASE_SSLMODE"),
			MaxRetry:      dbMaxRetry,
			RetryInterval: dbRetryInterval,
		},
		CacheAddr: os.Getenv("CACHE_HOST") + ":" + os.Getenv("CACHE_PORT"),
		CachePass: os.Getenv("CACHE_PASS"),
		CacheDB:   envInt("CACHE_DB", defaultCacheDB),
		Backend: supabase.Config{
			URL:        os.Getenv("BACKEND_URL"),
			AnonKey:    os.Getenv("BACKEND_ANON_KEY"),
			ServiceKey: os.Getenv("BACKEND_SERVICE_KEY"),
			JWTSecret:  os.Getenv("BACKEND_JWT_SECRET"),
		},
		AuthRedirectURL: os.Getenv("AUTH_REDIRECT_URL"),
		AvatarBaseURL:   os.Getenv("AVATAR_BASE_URL"),
		ProfileCacheTTL: envDuration("PROFILE_CACHE_TTL", defaultProfileTTL),
		PersistTimeout:  envDuration("PERSIST_TIMEOUT", 0),
		ChatOrder:       chat.ParseOrdering(os.Getenv("CHAT_ORDER")),
		SessionIdleTTL:  envDuration("SESSION_IDLE_TTL", defaultSessionIdleTTL),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("failed to parse %s, using default %d", key, def)
		return def
	}
	return n
}

// envSeconds reads a plain number of seconds, the way CONTEXT_TIMEOUT always worked
func envSeconds(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("failed to parse %s, using default %s", key, def)
		return def
	}
	return time.Duration(n) * time.Second
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("failed to parse %s, using default %s", key, def)
		return def
	}
	return d
}
