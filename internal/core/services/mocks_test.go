package services_test

import (
	"context"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
	name   string
	source domain.RateSource
}

func newMockProvider(name string, source domain.RateSource) *MockRateProvider {
	return &MockRateProvider{name: name, source: source}
}

func (m *MockRateProvider) Name() string { return m.name }

func (m *MockRateProvider) Source() domain.RateSource { return m.source }

func (m *MockRateProvider) GetRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (domain.ExchangeRate, bool, error) {
	args := m.Called(ctx, base, quote, date)
	return args.Get(0).(domain.ExchangeRate), args.Bool(1), args.Error(2)
}

// --- Mock ExchangeRateWriter ---
type MockExchangeRateWriter struct {
	mock.Mock
}

func (m *MockExchangeRateWriter) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Mock ExchangeRateBatchWriter ---
type MockExchangeRateBatchWriter struct {
	MockExchangeRateWriter
}

func (m *MockExchangeRateBatchWriter) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

// --- Mock ExchangeRateReader ---
type MockExchangeRateReader struct {
	mock.Mock
}

func (m *MockExchangeRateReader) FindExchangeRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, base, quote, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateReader) ListExchangeRatesForDate(ctx context.Context, base domain.CurrencyCode, date domain.Date) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, base, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Mock ExchangeRateReaderSvc ---
type MockRateReader struct {
	mock.Mock
}

func (m *MockRateReader) GetRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date, opts providers.LookupOptions) (domain.ExchangeRate, bool, error) {
	args := m.Called(ctx, base, quote, date, opts)
	return args.Get(0).(domain.ExchangeRate), args.Bool(1), args.Error(2)
}

func (m *MockRateReader) InvertRate(rate domain.ExchangeRate) domain.ExchangeRate {
	return rate.Inverse()
}

func d(s string) domain.Date { return domain.MustParseDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func money(amount string, currency string) domain.MonetaryAmount {
	return domain.NewMonetaryAmount(dec(amount), domain.CurrencyCode(currency))
}

func rateOf(base, quote, value, date string, source domain.RateSource) domain.ExchangeRate {
	return domain.ExchangeRate{
		Base:     domain.CurrencyCode(base),
		Quote:    domain.CurrencyCode(quote),
		Rate:     dec(value),
		RateDate: d(date),
		Source:   source,
	}
}
