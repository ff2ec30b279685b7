package providers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fx_engine/internal/adapters/providers"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Name() string { return "mock" }

func (m *MockRateProvider) Source() domain.RateSource { return domain.RateSourceCentralBank }

func (m *MockRateProvider) GetRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (domain.ExchangeRate, bool, error) {
	args := m.Called(ctx, base, quote, date)
	return args.Get(0).(domain.ExchangeRate), args.Bool(1), args.Error(2)
}

func newSharedProvider(t *testing.T, inner *MockRateProvider) (*providers.SharedCacheProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return providers.NewSharedCacheProvider(client, inner, time.Hour), mr
}

func TestSharedCacheProvider_StoresAndServesFromRedis(t *testing.T) {
	inner := new(MockRateProvider)
	p, mr := newSharedProvider(t, inner)
	ctx := context.Background()
	date := d("2024-03-01")

	inner.On("GetRate", mock.Anything, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD"), date).
		Return(domain.ExchangeRate{Base: "EUR", Quote: "USD", Rate: dec("1.0850"), RateDate: date, Source: domain.RateSourceCentralBank}, true, nil).
		Once()

	first, ok, err := p.GetRate(ctx, "EUR", "USD", date)
	require.NoError(t, err)
	require.True(t, ok)

	key := providers.SharedRateKey("EUR", "USD", date)
	assert.Equal(t, "fx:rate:EUR:USD:2024-03-01", key)
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	second, ok, err := p.GetRate(ctx, "EUR", "USD", date)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, first.Rate.Equal(second.Rate))
	assert.Equal(t, domain.RateSourceCentralBank, second.Source)
	assert.Equal(t, "2024-03-01", second.RateDate.String())

	inner.AssertExpectations(t)
}

func TestSharedCacheProvider_MissIsNotStored(t *testing.T) {
	inner := new(MockRateProvider)
	p, mr := newSharedProvider(t, inner)
	date := d("2024-03-01")

	inner.On("GetRate", mock.Anything, domain.CurrencyCode("EUR"), domain.CurrencyCode("ISK"), date).
		Return(domain.ExchangeRate{}, false, nil).Twice()

	for i := 0; i < 2; i++ {
		_, ok, err := p.GetRate(context.Background(), "EUR", "ISK", date)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.False(t, mr.Exists(providers.SharedRateKey("EUR", "ISK", date)))
	inner.AssertExpectations(t)
}

func TestSharedCacheProvider_InnerErrorPropagates(t *testing.T) {
	inner := new(MockRateProvider)
	p, _ := newSharedProvider(t, inner)
	date := d("2024-03-01")
	boom := errors.New("upstream timeout")

	inner.On("GetRate", mock.Anything, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD"), date).
		Return(domain.ExchangeRate{}, false, boom).Once()

	_, ok, err := p.GetRate(context.Background(), "EUR", "USD", date)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestSharedCacheProvider_RedisDownFallsThrough(t *testing.T) {
	inner := new(MockRateProvider)
	p, mr := newSharedProvider(t, inner)
	date := d("2024-03-01")
	mr.Close()

	inner.On("GetRate", mock.Anything, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD"), date).
		Return(domain.ExchangeRate{Base: "EUR", Quote: "USD", Rate: dec("1.08"), RateDate: date}, true, nil).Once()

	rate, ok, err := p.GetRate(context.Background(), "EUR", "USD", date)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1.08", rate.Rate.String())
}

func TestSharedCacheProvider_CorruptEntryFallsThrough(t *testing.T) {
	inner := new(MockRateProvider)
	p, mr := newSharedProvider(t, inner)
	date := d("2024-03-01")
	key := providers.SharedRateKey("EUR", "USD", date)
	require.NoError(t, mr.Set(key, "{not json"))

	inner.On("GetRate", mock.Anything, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD"), date).
		Return(domain.ExchangeRate{Base: "EUR", Quote: "USD", Rate: dec("1.08"), RateDate: date}, true, nil).Once()

	_, ok, err := p.GetRate(context.Background(), "EUR", "USD", date)
	require.NoError(t, err)
	require.True(t, ok)

	stored, err := mr.Get(key)
	require.NoError(t, err)
	var rate domain.ExchangeRate
	require.NoError(t, json.Unmarshal([]byte(stored), &rate), "corrupt entry replaced")
}
