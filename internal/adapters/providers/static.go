package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

type pairKey struct {
	base  domain.CurrencyCode
	quote domain.CurrencyCode
}

// StaticRateProvider answers from an in-memory table of manually supplied
// rates. A lookup returns the latest observation on or before the requested
// date, taken from the direct pair or, failing that, inverted from the
// reverse pair. It also serves as the manual-rate store when no database is
// configured.
type StaticRateProvider struct {
	mu    sync.RWMutex
	rates map[pairKey][]domain.ExchangeRate // ascending by RateDate
	now   func() time.Time
}

// NewStaticRateProvider creates an empty table.
func NewStaticRateProvider() *StaticRateProvider {
	return &StaticRateProvider{
		rates: make(map[pairKey][]domain.ExchangeRate),
		now:   time.Now,
	}
}

func (p *StaticRateProvider) Name() string { return "static" }

func (p *StaticRateProvider) Source() domain.RateSource { return domain.RateSourceManual }

// Set records 1 base = value quote on date, replacing any rate for the same
// pair and date.
func (p *StaticRateProvider) Set(base, quote domain.CurrencyCode, date domain.Date, value decimal.Decimal) error {
	return p.SaveExchangeRate(context.Background(), domain.ExchangeRate{
		Base:     base,
		Quote:    quote,
		Rate:     value,
		RateDate: date,
		Source:   domain.RateSourceManual,
	})
}

// SetDaily records one rate per quote currency against base for date.
func (p *StaticRateProvider) SetDaily(base domain.CurrencyCode, date domain.Date, rates map[domain.CurrencyCode]decimal.Decimal) error {
	for quote, value := range rates {
		if quote == base {
			continue
		}
		if err := p.Set(base, quote, date, value); err != nil {
			return err
		}
	}
	return nil
}

// SaveExchangeRate stores rate in the table.
func (p *StaticRateProvider) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	if !domain.IsSupportedCurrency(rate.Base) || !domain.IsSupportedCurrency(rate.Quote) {
		return fmt.Errorf("%w: %s/%s", apperrors.ErrUnsupportedCurrency, rate.Base, rate.Quote)
	}
	if rate.Base == rate.Quote {
		return fmt.Errorf("%w: base and quote currency codes cannot be the same", apperrors.ErrValidation)
	}
	if !rate.Rate.IsPositive() {
		return fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if rate.RateDate.IsZero() {
		return fmt.Errorf("%w: rate date is required", apperrors.ErrValidation)
	}
	if rate.Source == "" {
		rate.Source = domain.RateSourceManual
	}
	if rate.FetchedAt.IsZero() {
		rate.FetchedAt = p.now()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	k := pairKey{base: rate.Base, quote: rate.Quote}
	series := p.rates[k]
	i := sort.Search(len(series), func(i int) bool { return !series[i].RateDate.Before(rate.RateDate) })
	if i < len(series) && series[i].RateDate.Equal(rate.RateDate) {
		series[i] = rate
		return nil
	}
	series = append(series, domain.ExchangeRate{})
	copy(series[i+1:], series[i:])
	series[i] = rate
	p.rates[k] = series
	return nil
}

// GetRate returns the latest rate on or before date. A direct observation
// wins over an inverted one from the same day.
func (p *StaticRateProvider) GetRate(_ context.Context, base, quote domain.CurrencyCode, date domain.Date) (domain.ExchangeRate, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	direct, hasDirect := latestOnOrBefore(p.rates[pairKey{base: base, quote: quote}], date)
	reverse, hasReverse := latestOnOrBefore(p.rates[pairKey{base: quote, quote: base}], date)

	switch {
	case hasDirect && (!hasReverse || !reverse.RateDate.After(direct.RateDate)):
		return direct, true, nil
	case hasReverse:
		return reverse.Inverse(), true, nil
	}
	return domain.ExchangeRate{}, false, nil
}

// FindExchangeRate is GetRate with a not-found error for a missing rate.
func (p *StaticRateProvider) FindExchangeRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (*domain.ExchangeRate, error) {
	rate, ok, err := p.GetRate(ctx, base, quote, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("no exchange rate found for currency pair " + string(base) + " to " + string(quote))
	}
	return &rate, nil
}

// ListExchangeRatesForDate returns the rates recorded against base on exactly
// date, ordered by quote currency.
func (p *StaticRateProvider) ListExchangeRatesForDate(_ context.Context, base domain.CurrencyCode, date domain.Date) ([]domain.ExchangeRate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rates := []domain.ExchangeRate{}
	for k, series := range p.rates {
		if k.base != base {
			continue
		}
		if rate, ok := latestOnOrBefore(series, date); ok && rate.RateDate.Equal(date) {
			rates = append(rates, rate)
		}
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Quote < rates[j].Quote })
	return rates, nil
}

func latestOnOrBefore(series []domain.ExchangeRate, date domain.Date) (domain.ExchangeRate, bool) {
	i := sort.Search(len(series), func(i int) bool { return series[i].RateDate.After(date) })
	if i == 0 {
		return domain.ExchangeRate{}, false
	}
	return series[i-1], true
}
