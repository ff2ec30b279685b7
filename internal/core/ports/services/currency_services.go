package services

import (
	"context"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.CurrencyInfo, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
}

// ExchangeRateReaderSvc defines rate lookups
type ExchangeRateReaderSvc interface {
	// GetRate resolves a rate cache-first, asking a provider on a miss. ok is
	// false when no source has a rate.
	GetRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date, opts providers.LookupOptions) (rate domain.ExchangeRate, ok bool, err error)

	// InvertRate returns the reciprocal observation without a provider call.
	InvertRate(rate domain.ExchangeRate) domain.ExchangeRate
}

// ExchangeRateListerSvc lists stored rates
type ExchangeRateListerSvc interface {
	// ListRatesForDate returns the stored rates quoted against base on exactly date.
	ListRatesForDate(ctx context.Context, base domain.CurrencyCode, date domain.Date) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// RecordManualRate stores a caller-supplied rate and primes the cache with it.
	RecordManualRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error)

	// PrimeDailyRates bulk-loads one base currency's rates for a date into the cache.
	PrimeDailyRates(ctx context.Context, base domain.CurrencyCode, date domain.Date, rates map[domain.CurrencyCode]decimal.Decimal, source domain.RateSource) int

	// RecordDailyRates persists one base currency's rates for a date through
	// the rate writer, then primes the cache with them.
	RecordDailyRates(ctx context.Context, base domain.CurrencyCode, date domain.Date, rates map[domain.CurrencyCode]decimal.Decimal, source domain.RateSource) (int, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateListerSvc
	ExchangeRateWriterSvc
}
