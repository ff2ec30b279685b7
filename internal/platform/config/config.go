package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/ratecache"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Rate provider backends selectable with RATE_PROVIDER.
const (
	RateProviderStatic   = "static"
	RateProviderDatabase = "database"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	LogFormat     string
	LogLevel      string

	// Rate cache and lookup
	RateCacheMaxSize    int
	RateCacheTTL        time.Duration
	RateProvider        string
	BusinessDayLookback int
	Holidays            []domain.Date

	// Shared rate tier, also used by the rate limiter when set
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SharedRateTTL time.Duration

	// HTTP
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_CACHE_MAX_SIZE", ratecache.DefaultMaxSize)
	v.SetDefault("RATE_CACHE_TTL", ratecache.DefaultTTL.String())
	v.SetDefault("RATE_PROVIDER", RateProviderStatic)
	v.SetDefault("BUSINESS_DAY_LOOKBACK", domain.DefaultBusinessDayLookback)
	v.SetDefault("HOLIDAYS", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SHARED_RATE_TTL", "1h")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		LogFormat:           strings.ToLower(v.GetString("LOG_FORMAT")),
		LogLevel:            strings.ToLower(v.GetString("LOG_LEVEL")),
		RateCacheMaxSize:    v.GetInt("RATE_CACHE_MAX_SIZE"),
		RateProvider:        strings.ToLower(v.GetString("RATE_PROVIDER")),
		BusinessDayLookback: v.GetInt("BUSINESS_DAY_LOOKBACK"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		RateLimit:           v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Rates are served from the in-memory table only.")
	}

	var err error
	if cfg.RateCacheTTL, err = parseDuration(v, "RATE_CACHE_TTL"); err != nil {
		return nil, err
	}
	if cfg.SharedRateTTL, err = parseDuration(v, "SHARED_RATE_TTL"); err != nil {
		return nil, err
	}
	if cfg.RateCacheMaxSize <= 0 {
		return nil, fmt.Errorf("RATE_CACHE_MAX_SIZE must be positive, got %d", cfg.RateCacheMaxSize)
	}
	if cfg.BusinessDayLookback < 0 {
		return nil, fmt.Errorf("BUSINESS_DAY_LOOKBACK cannot be negative, got %d", cfg.BusinessDayLookback)
	}

	switch cfg.RateProvider {
	case RateProviderStatic:
	case RateProviderDatabase:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("RATE_PROVIDER=%s requires PGSQL_URL", RateProviderDatabase)
		}
	default:
		return nil, fmt.Errorf("unknown RATE_PROVIDER %q", cfg.RateProvider)
	}

	for _, s := range splitList(v.GetString("HOLIDAYS")) {
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid HOLIDAYS entry %q: %w", s, err)
		}
		cfg.Holidays = append(cfg.Holidays, d)
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s cannot be negative", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
