package repositories

import (
	"context"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindExchangeRate retrieves the latest rate for the pair effective on or before date.
	FindExchangeRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (*domain.ExchangeRate, error)
	// ListExchangeRatesForDate retrieves every rate quoted against base on exactly date.
	ListExchangeRatesForDate(ctx context.Context, base domain.CurrencyCode, date domain.Date) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate inserts a rate, or replaces the one stored for the same pair and date.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateBatchWriter stores a set of rates all-or-nothing.
type ExchangeRateBatchWriter interface {
	SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateStore is where manually recorded rates are kept and listed.
type ExchangeRateStore interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
	ExchangeRateBatchWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}

// ExchangeRateProviderRepository is a rate repository that also answers
// provider lookups from what it stores.
type ExchangeRateProviderRepository interface {
	ExchangeRateRepositoryFacade
	providers.RateProvider
}
