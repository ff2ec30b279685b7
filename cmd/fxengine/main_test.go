package main

import (
	"context"
	"testing"
	"time"

	fxproviders "github.com/SscSPs/fx_engine/internal/adapters/providers"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	"github.com/SscSPs/fx_engine/internal/platform/config"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRateRepository stands in for the PostgreSQL rate repository.
type memoryRateRepository struct {
	*fxproviders.StaticRateProvider
}

func newMemoryRateRepository() *memoryRateRepository {
	return &memoryRateRepository{StaticRateProvider: fxproviders.NewStaticRateProvider()}
}

func (r *memoryRateRepository) Name() string { return "memory-db" }

func (r *memoryRateRepository) Source() domain.RateSource { return domain.RateSourceDatabase }

func (r *memoryRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	for _, rate := range rates {
		if err := r.SaveExchangeRate(ctx, rate); err != nil {
			return err
		}
	}
	return nil
}

func manualRate() domain.ExchangeRate {
	return domain.ExchangeRate{
		Base:     "EUR",
		Quote:    "USD",
		Rate:     decimal.RequireFromString("1.0850"),
		RateDate: domain.MustParseDate("2024-03-01"),
		Source:   domain.RateSourceManual,
	}
}

func TestSetupRateProviders_WithoutDatabase(t *testing.T) {
	registry := providers.NewRegistry(nil)
	cfg := &config.Config{RateProvider: config.RateProviderStatic}

	def, store := setupRateProviders(registry, cfg, nil, nil)

	assert.Equal(t, "static", def.Name())
	require.NoError(t, store.SaveExchangeRate(context.Background(), manualRate()))

	manual, ok := registry.ForSource(domain.RateSourceManual)
	require.True(t, ok)
	_, found, err := manual.GetRate(context.Background(), "EUR", "USD", domain.MustParseDate("2024-03-01"))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSetupRateProviders_ManualLookupsReadTheDatabase(t *testing.T) {
	registry := providers.NewRegistry(nil)
	repo := newMemoryRateRepository()
	cfg := &config.Config{RateProvider: config.RateProviderStatic}

	def, store := setupRateProviders(registry, cfg, repo, nil)

	assert.Equal(t, "static", def.Name())
	require.NoError(t, store.SaveExchangeRate(context.Background(), manualRate()))

	manual, ok := registry.ForSource(domain.RateSourceManual)
	require.True(t, ok)
	assert.Equal(t, "memory-db", manual.Name())
	rate, found, err := manual.GetRate(context.Background(), "EUR", "USD", domain.MustParseDate("2024-03-01"))
	require.NoError(t, err)
	require.True(t, found, "a manual rate written to the store is visible to MANUAL lookups")
	assert.Equal(t, "1.085", rate.Rate.String())

	dbProvider, ok := registry.ForSource(domain.RateSourceDatabase)
	require.True(t, ok)
	assert.Equal(t, "memory-db", dbProvider.Name())
}

func TestSetupRateProviders_DatabaseDefaultBehindRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cfg := &config.Config{RateProvider: config.RateProviderDatabase, SharedRateTTL: time.Hour}

	def, _ := setupRateProviders(providers.NewRegistry(nil), cfg, newMemoryRateRepository(), client)

	assert.Equal(t, "shared-cache/memory-db", def.Name())
}
