package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string
	JWTSecret   string
	CORSOrigins string

	QueryCacheTTL        time.Duration
	QueryCacheMaxEntries int
	ScanCacheTTL         time.Duration
	ScanCacheMaxEntries  int
	SearchDebounce       time.Duration
	ScanThrottle         time.Duration

	// ScannerDevice is a serial or line mode barcode reader. Empty disables it.
	ScannerDevice string

	// CartStore selects the history backend: "file" or "redis".
	CartStore    string
	CartFile     string
	CartKey      string
	CartAutoSave bool
	RedisURL     string

	PrinterURL      string
	PrinterName     string
	PrintCopies     int
	PrintPaperWidth int
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		QueryCacheTTL:        getEnvDuration("QUERY_CACHE_TTL", 30*time.Second),
		QueryCacheMaxEntries: getEnvInt("QUERY_CACHE_MAX_ENTRIES", 200),
		ScanCacheTTL:         getEnvDuration("SCAN_CACHE_TTL", 5*time.Minute),
		ScanCacheMaxEntries:  getEnvInt("SCAN_CACHE_MAX_ENTRIES", 2000),
		SearchDebounce:       getEnvDuration("SEARCH_DEBOUNCE", 200*time.Millisecond),
		ScanThrottle:         getEnvDuration("SCAN_THROTTLE", 100*time.Millisecond),
		ScannerDevice:        getEnv("SCANNER_DEVICE", ""),

		CartStore:    strings.ToLower(getEnv("CART_STORE", "file")),
		CartFile:     getEnv("CART_FILE", "pos-cart.json"),
		CartKey:      getEnv("CART_KEY", "pos:cart-history"),
		CartAutoSave: getEnvBool("CART_AUTOSAVE", true),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),

		PrinterURL:      getEnv("PRINTER_URL", ""),
		PrinterName:     getEnv("PRINTER_NAME", ""),
		PrintCopies:     getEnvInt("PRINT_COPIES", 1),
		PrintPaperWidth: getEnvInt("PRINT_PAPER_WIDTH", 80),
	}
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.CartStore != "file" && c.CartStore != "redis" {
		return errors.New("CART_STORE must be file or redis")
	}
	if c.ScanCacheTTL < c.QueryCacheTTL {
		return errors.New("SCAN_CACHE_TTL must not be shorter than QUERY_CACHE_TTL")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
