package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	fxproviders "github.com/SscSPs/fx_engine/internal/adapters/providers"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/fx_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_engine/internal/core/services"
	"github.com/SscSPs/fx_engine/internal/handlers"
	"github.com/SscSPs/fx_engine/internal/middleware"
	"github.com/SscSPs/fx_engine/internal/platform/config"
	"github.com/SscSPs/fx_engine/internal/ratecache"
	"github.com/SscSPs/fx_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/fx_engine/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title FX Engine API
// @version 1.0
// @description Currency conversion, exchange-rate lookup, FX gain/loss and multi-currency ledger views.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fxengine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos portsrepo.RepositoryProvider
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return fmt.Errorf("initialize database pool: %w", err)
		}
		defer database.ClosePgxPool(dbPool)
		logger.Info("Database connection pool established")

		logger.Info("Running database migrations")
		if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations", logger); err != nil {
			return err
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Redis connection established", slog.String("addr", cfg.RedisAddr))
	}

	registry := providers.GlobalRegistry()
	defaultProvider, rateStore := setupRateProviders(registry, cfg, repos.ExchangeRateRepo, redisClient)
	providers.SetDefaultProvider(defaultProvider)
	if p, ok := providers.DefaultProvider(); ok {
		logger.Info("Rate providers configured", slog.String("default", p.Name()))
	}

	cache := ratecache.New(ratecache.WithMaxSize(cfg.RateCacheMaxSize), ratecache.WithTTL(cfg.RateCacheTTL))
	go purgeExpiredRates(ctx, cache, cfg.RateCacheTTL, logger)

	serviceContainer := services.NewServiceContainer(cfg, registry, cache, rateStore)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return err
	}
	handlers.RegisterRoutes(r, cfg, serviceContainer, repos, middleware.RateLimit(limiter))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server failed to run: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
	return nil
}

// setupRateProviders registers every available provider by source and returns
// the default one picked from config, with the shared redis tier in front of it.
// Manual rates are kept in, and MANUAL lookups answered from, the returned
// store: the database when there is one, else an in-memory table.
func setupRateProviders(registry *providers.Registry, cfg *config.Config, dbRates portsrepo.ExchangeRateProviderRepository, redisClient *redis.Client) (providers.RateProvider, portsrepo.ExchangeRateStore) {
	static := fxproviders.NewStaticRateProvider()

	var (
		def    providers.RateProvider      = static
		manual providers.RateProvider      = static
		store  portsrepo.ExchangeRateStore = static
	)
	if dbRates != nil {
		manual, store = dbRates, dbRates
		registry.Register(domain.RateSourceDatabase, dbRates)
		if cfg.RateProvider == config.RateProviderDatabase {
			def = dbRates
		}
	}
	registry.Register(domain.RateSourceManual, manual)
	if redisClient != nil {
		def = fxproviders.NewSharedCacheProvider(redisClient, def, cfg.SharedRateTTL)
	}
	return def, store
}

// purgeExpiredRates drops stale cache entries every ttl until ctx is done.
func purgeExpiredRates(ctx context.Context, cache *ratecache.Cache, ttl time.Duration, logger *slog.Logger) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := cache.PurgeExpired(); removed > 0 {
				logger.Debug("Purged expired rates", slog.Int("removed", removed), slog.Int("remaining", cache.Size()))
			}
		}
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
