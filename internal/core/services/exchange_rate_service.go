package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/fx_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_engine/internal/ratecache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// ExchangeRateService resolves exchange rates cache-first and asks a provider
// on a miss, walking back over non-business days.
type ExchangeRateService struct {
	BaseService
	cache      *ratecache.Cache
	registry   *providers.Registry
	calendar   domain.BusinessCalendar
	lookback   int
	rateWriter portsrepo.ExchangeRateWriter
	rateReader portsrepo.ExchangeRateReader
	now        func() time.Time
	lookups    singleflight.Group
}

// ExchangeRateOption configures an ExchangeRateService.
type ExchangeRateOption func(*ExchangeRateService)

// WithCache uses c instead of the process-wide rate cache.
func WithCache(c *ratecache.Cache) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithRegistry uses r instead of the process-wide provider registry.
func WithRegistry(r *providers.Registry) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithProvider uses a fresh registry whose default is p.
func WithProvider(p providers.RateProvider) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		s.registry = providers.NewRegistry(p)
	}
}

// WithCalendar sets the business calendar used for weekend and holiday fallback.
func WithCalendar(c domain.BusinessCalendar) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		s.calendar = c
	}
}

// WithLookback bounds how many calendar days GetRate walks back. Zero
// disables the walk: only the effective business day is asked.
func WithLookback(days int) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		if days >= 0 {
			s.lookback = days
		}
	}
}

// WithRateWriter stores manual rates through w in addition to the cache.
func WithRateWriter(w portsrepo.ExchangeRateWriter) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		s.rateWriter = w
	}
}

// WithRateReader lists stored rates through r.
func WithRateReader(r portsrepo.ExchangeRateReader) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		s.rateReader = r
	}
}

// WithNow replaces time.Now for fetch timestamps.
func WithNow(now func() time.Time) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(opts ...ExchangeRateOption) *ExchangeRateService {
	s := &ExchangeRateService{
		cache:    ratecache.Default(),
		registry: providers.GlobalRegistry(),
		calendar: domain.NewBusinessCalendar(),
		lookback: domain.DefaultBusinessDayLookback,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache exposes the cache this service reads through.
func (s *ExchangeRateService) Cache() *ratecache.Cache { return s.cache }

type lookupResult struct {
	rate domain.ExchangeRate
	ok   bool
}

// GetRate resolves the rate for base/quote on date. A zero date means today.
// The returned rate carries its real observation date, which precedes date
// when date is not a business day or the provider had no observation for it.
func (s *ExchangeRateService) GetRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date, opts providers.LookupOptions) (domain.ExchangeRate, bool, error) {
	if _, err := currencyInfo(base); err != nil {
		return domain.ExchangeRate{}, false, err
	}
	if _, err := currencyInfo(quote); err != nil {
		return domain.ExchangeRate{}, false, err
	}
	if date.IsZero() {
		date = domain.Today()
	}
	if base == quote {
		return s.identityRate(base, date), true, nil
	}

	if rate, ok := s.cache.Get(base, quote, date); ok {
		s.LogDebug(ctx, "Rate cache hit",
			slog.String("pair", pairString(base, quote)),
			slog.String("date", date.String()))
		return rate, true, nil
	}

	provider, ok := s.registry.Resolve(opts)
	if !ok {
		s.LogDebug(ctx, "No rate provider configured",
			slog.String("pair", pairString(base, quote)))
		return domain.ExchangeRate{}, false, nil
	}

	key := fmt.Sprintf("%s|%s|%s|%s", provider.Name(), base, quote, date)
	v, err, _ := s.lookups.Do(key, func() (interface{}, error) {
		rate, found, err := s.fetch(ctx, provider, base, quote, date)
		return lookupResult{rate: rate, ok: found}, err
	})
	if err != nil {
		s.LogError(ctx, err, "Rate provider failed",
			slog.String("provider", provider.Name()),
			slog.String("pair", pairString(base, quote)),
			slog.String("date", date.String()))
		return domain.ExchangeRate{}, false, fmt.Errorf("rate provider %s: %w", provider.Name(), err)
	}
	res := v.(lookupResult)
	return res.rate, res.ok, nil
}

// fetch asks provider for the effective business day, then each preceding
// business day within the lookback window, and caches the first hit under
// both its observation date and the requested date. An observation older than
// the window is a miss, even when the provider offers it.
func (s *ExchangeRateService) fetch(ctx context.Context, provider providers.RateProvider, base, quote domain.CurrencyCode, date domain.Date) (domain.ExchangeRate, bool, error) {
	// a lookup that finished while this one was queued may already have filled the cache
	if rate, ok := s.cache.Get(base, quote, date); ok {
		return rate, true, nil
	}

	first := s.calendar.EffectiveRateDate(date)
	earliest := date.AddDays(-s.lookback)
	if first.Before(earliest) {
		earliest = first
	}
	for d := first; !d.Before(earliest); d = s.calendar.PreviousBusinessDay(d) {
		if !d.Equal(date) {
			if rate, ok := s.cache.Get(base, quote, d); ok {
				if rate.RateDate.Before(earliest) {
					break
				}
				s.cache.SetFor(date, rate)
				return rate, true, nil
			}
		}

		rate, ok, err := provider.GetRate(ctx, base, quote, d)
		if err != nil {
			return domain.ExchangeRate{}, false, err
		}
		if !ok {
			continue
		}

		if rate.Source == "" {
			rate.Source = provider.Source()
		}
		if rate.RateDate.IsZero() {
			rate.RateDate = d
		}
		if rate.RateDate.Before(earliest) {
			// nothing newer is stored, so earlier days cannot do better
			s.LogWarn(ctx, "Provider rate is older than the lookback window",
				slog.String("provider", provider.Name()),
				slog.String("pair", pairString(base, quote)),
				slog.String("requested_date", date.String()),
				slog.String("rate_date", rate.RateDate.String()))
			break
		}
		if rate.FetchedAt.IsZero() {
			rate.FetchedAt = s.now()
		}
		s.cache.Set(rate)
		if !rate.RateDate.Equal(date) {
			s.cache.SetFor(date, rate)
			s.LogInfo(ctx, "Resolved rate from an earlier business day",
				slog.String("pair", pairString(base, quote)),
				slog.String("requested_date", date.String()),
				slog.String("rate_date", rate.RateDate.String()))
		}
		return rate, true, nil
	}

	s.LogDebug(ctx, "No rate within lookback window",
		slog.String("provider", provider.Name()),
		slog.String("pair", pairString(base, quote)),
		slog.String("date", date.String()),
		slog.Int("lookback_days", s.lookback))
	return domain.ExchangeRate{}, false, nil
}

// ListRatesForDate returns the rates stored against base on exactly date. A
// zero date means today. Without a rate reader nothing is stored, so the list
// is empty.
func (s *ExchangeRateService) ListRatesForDate(ctx context.Context, base domain.CurrencyCode, date domain.Date) ([]domain.ExchangeRate, error) {
	if _, err := currencyInfo(base); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = domain.Today()
	}
	if s.rateReader == nil {
		return []domain.ExchangeRate{}, nil
	}

	rates, err := s.rateReader.ListExchangeRatesForDate(ctx, base, date)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates",
			slog.String("base", string(base)),
			slog.String("date", date.String()))
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	s.LogDebug(ctx, "Listed stored rates",
		slog.String("base", string(base)),
		slog.String("date", date.String()),
		slog.Int("count", len(rates)))
	return rates, nil
}

// InvertRate returns the reciprocal observation for display. No provider is asked.
func (s *ExchangeRateService) InvertRate(rate domain.ExchangeRate) domain.ExchangeRate {
	return rate.Inverse()
}

// RecordManualRate validates a caller-supplied rate, stores it through the
// rate writer when one is configured and primes the cache with it.
func (s *ExchangeRateService) RecordManualRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	if !rate.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if rate.Base == rate.Quote {
		return nil, fmt.Errorf("%w: base and quote currency codes cannot be the same", apperrors.ErrValidation)
	}
	if _, err := currencyInfo(rate.Base); err != nil {
		return nil, err
	}
	if _, err := currencyInfo(rate.Quote); err != nil {
		return nil, err
	}
	if rate.RateDate.IsZero() {
		return nil, fmt.Errorf("%w: rate date is required", apperrors.ErrValidation)
	}
	if rate.Source == "" {
		rate.Source = domain.RateSourceManual
	}
	if !rate.Source.Valid() || rate.Source == domain.RateSourceIdentity {
		return nil, fmt.Errorf("%w: invalid rate source %q", apperrors.ErrValidation, string(rate.Source))
	}
	if rate.ExchangeRateID == "" {
		rate.ExchangeRateID = uuid.NewString()
	}
	if rate.FetchedAt.IsZero() {
		rate.FetchedAt = s.now()
	}

	if s.rateWriter != nil {
		if err := s.rateWriter.SaveExchangeRate(ctx, rate); err != nil {
			s.LogError(ctx, err, "Failed to save exchange rate",
				slog.String("pair", pairString(rate.Base, rate.Quote)),
				slog.String("date", rate.RateDate.String()))
			return nil, fmt.Errorf("failed to save exchange rate: %w", err)
		}
	}
	s.cache.Set(rate)

	s.LogInfo(ctx, "Manual exchange rate recorded",
		slog.String("exchange_rate_id", rate.ExchangeRateID),
		slog.String("pair", pairString(rate.Base, rate.Quote)),
		slog.String("date", rate.RateDate.String()))
	return &rate, nil
}

// PrimeDailyRates bulk-loads one base currency's rates for date into the cache.
func (s *ExchangeRateService) PrimeDailyRates(ctx context.Context, base domain.CurrencyCode, date domain.Date, rates map[domain.CurrencyCode]decimal.Decimal, source domain.RateSource) int {
	n := s.cache.SetDailyRates(base, date, rates, source)
	s.LogDebug(ctx, "Primed daily rates",
		slog.String("base", string(base)),
		slog.String("date", date.String()),
		slog.Int("count", n))
	return n
}

// RecordDailyRates stores a day's rates for base through the rate writer, in
// one batch when the writer supports it, and then primes the cache. Nothing is
// cached when the write fails.
func (s *ExchangeRateService) RecordDailyRates(ctx context.Context, base domain.CurrencyCode, date domain.Date, rates map[domain.CurrencyCode]decimal.Decimal, source domain.RateSource) (int, error) {
	if _, err := currencyInfo(base); err != nil {
		return 0, err
	}
	if date.IsZero() {
		return 0, fmt.Errorf("%w: rate date is required", apperrors.ErrValidation)
	}
	if source == "" {
		source = domain.RateSourceManual
	}
	if !source.Valid() || source == domain.RateSourceIdentity {
		return 0, fmt.Errorf("%w: invalid rate source %q", apperrors.ErrValidation, string(source))
	}

	fetchedAt := s.now()
	batch := make([]domain.ExchangeRate, 0, len(rates))
	for quote, value := range rates {
		if quote == base {
			continue
		}
		if _, err := currencyInfo(quote); err != nil {
			return 0, err
		}
		if !value.IsPositive() {
			return 0, fmt.Errorf("%w: rate for %s must be positive", apperrors.ErrValidation, quote)
		}
		batch = append(batch, domain.ExchangeRate{
			ExchangeRateID: uuid.NewString(),
			Base:           base,
			Quote:          quote,
			Rate:           value,
			RateDate:       date,
			Source:         source,
			FetchedAt:      fetchedAt,
		})
	}

	if s.rateWriter != nil {
		if err := s.saveBatch(ctx, batch); err != nil {
			s.LogError(ctx, err, "Failed to save daily rates",
				slog.String("base", string(base)),
				slog.String("date", date.String()))
			return 0, fmt.Errorf("failed to save daily rates: %w", err)
		}
	}
	for _, rate := range batch {
		s.cache.Set(rate)
	}

	s.LogInfo(ctx, "Daily rates recorded",
		slog.String("base", string(base)),
		slog.String("date", date.String()),
		slog.Int("count", len(batch)))
	return len(batch), nil
}

func (s *ExchangeRateService) saveBatch(ctx context.Context, rates []domain.ExchangeRate) error {
	if bw, ok := s.rateWriter.(portsrepo.ExchangeRateBatchWriter); ok {
		return bw.SaveExchangeRates(ctx, rates)
	}
	for _, rate := range rates {
		if err := s.rateWriter.SaveExchangeRate(ctx, rate); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExchangeRateService) identityRate(code domain.CurrencyCode, date domain.Date) domain.ExchangeRate {
	return domain.ExchangeRate{
		Base:      code,
		Quote:     code,
		Rate:      decimal.NewFromInt(1),
		RateDate:  date,
		Source:    domain.RateSourceIdentity,
		FetchedAt: s.now(),
	}
}

func pairString(base, quote domain.CurrencyCode) string {
	return string(base) + "/" + string(quote)
}
