package services

import (
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/fx_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_engine/internal/platform/config"
	"github.com/SscSPs/fx_engine/internal/ratecache"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// rateStore keeps manually recorded rates and may be nil, in which case they
// only live in the cache.
func NewServiceContainer(cfg *config.Config, registry *providers.Registry, cache *ratecache.Cache, rateStore portsrepo.ExchangeRateStore) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	rateOpts := []ExchangeRateOption{
		WithCache(cache),
		WithRegistry(registry),
		WithCalendar(domain.NewBusinessCalendar(cfg.Holidays...)),
		WithLookback(cfg.BusinessDayLookback),
	}
	if rateStore != nil {
		rateOpts = append(rateOpts, WithRateWriter(rateStore), WithRateReader(rateStore))
	}
	exchangeRates := NewExchangeRateService(rateOpts...)
	conversion := NewConversionService(exchangeRates)

	container.Currency = NewCurrencyService()
	container.ExchangeRate = exchangeRates
	container.Conversion = conversion
	container.GainLoss = NewGainLossService(nil)
	container.MultiCurrency = NewMultiCurrencyService(conversion)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CurrencySvcFacade     = (*CurrencyService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)
	_ portssvc.ConversionSvc         = (*ConversionService)(nil)
	_ portssvc.GainLossSvc           = (*GainLossService)(nil)
	_ portssvc.MultiCurrencySvc      = (*MultiCurrencyService)(nil)
)
