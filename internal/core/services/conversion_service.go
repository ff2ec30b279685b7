package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	portssvc "github.com/SscSPs/fx_engine/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConversionService converts amounts between currencies and produces the
// audit record of each conversion. It never persists anything.
type ConversionService struct {
	BaseService
	rates portssvc.ExchangeRateReaderSvc
	now   func() time.Time
	newID func() string
}

// ConversionOption configures a ConversionService.
type ConversionOption func(*ConversionService)

// WithConversionClock replaces time.Now for conversion timestamps.
func WithConversionClock(now func() time.Time) ConversionOption {
	return func(s *ConversionService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithConversionIDs replaces the conversion id generator.
func WithConversionIDs(newID func() string) ConversionOption {
	return func(s *ConversionService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewConversionService creates a ConversionService looking rates up through rates.
func NewConversionService(rates portssvc.ExchangeRateReaderSvc, opts ...ConversionOption) *ConversionService {
	s := &ConversionService{
		rates: rates,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConvertCurrency converts req.Amount from req.From to req.To. A pinned rate in
// opts is used as-is; otherwise the rate is looked up for req.Date (today when
// zero). The converted amount is rounded to the target currency's minor unit.
func (s *ConversionService) ConvertCurrency(ctx context.Context, req domain.ConversionRequest, opts portssvc.ConvertOptions) (*domain.FxConversion, error) {
	if !req.RoundingMode.Valid() {
		return nil, fmt.Errorf("%w: unknown rounding mode %q", apperrors.ErrValidation, string(req.RoundingMode))
	}
	mode := req.RoundingMode.OrDefault()
	if _, err := currencyInfo(req.From); err != nil {
		return nil, err
	}
	toInfo, err := currencyInfo(req.To)
	if err != nil {
		return nil, err
	}
	date := req.Date
	if date.IsZero() {
		date = domain.Today()
	}

	if req.From == req.To {
		one := decimal.NewFromInt(1)
		return &domain.FxConversion{
			ConversionID:       s.newID(),
			OriginalAmount:     req.Amount,
			OriginalCurrency:   req.From,
			ConvertedAmount:    req.Amount,
			ConvertedCurrency:  req.To,
			ExchangeRate:       one,
			InverseRate:        one,
			RateDate:           date,
			RateSource:         domain.RateSourceIdentity,
			RoundingMode:       mode,
			RoundingDifference: decimal.Zero,
			Timestamp:          s.now(),
		}, nil
	}

	rate, err := s.resolveRate(ctx, req.From, req.To, date, opts)
	if err != nil {
		return nil, err
	}

	raw := req.Amount.Mul(rate.Rate)
	converted := RoundAmount(raw, toInfo.DecimalPlaces, mode)

	conversion := &domain.FxConversion{
		ConversionID:       s.newID(),
		OriginalAmount:     req.Amount,
		OriginalCurrency:   req.From,
		ConvertedAmount:    converted,
		ConvertedCurrency:  req.To,
		ExchangeRate:       rate.Rate,
		InverseRate:        domain.InverseOf(rate.Rate),
		RateDate:           rate.RateDate,
		RateSource:         rate.Source,
		RoundingMode:       mode,
		RoundingDifference: converted.Sub(raw),
		Timestamp:          s.now(),
	}
	s.LogDebug(ctx, "Currency converted",
		slog.String("conversion_id", conversion.ConversionID),
		slog.String("pair", pairString(req.From, req.To)),
		slog.String("rate", rate.Rate.String()),
		slog.String("rate_date", rate.RateDate.String()))
	return conversion, nil
}

func (s *ConversionService) resolveRate(ctx context.Context, from, to domain.CurrencyCode, date domain.Date, opts portssvc.ConvertOptions) (domain.ExchangeRate, error) {
	if opts.Rate != nil {
		pinned := *opts.Rate
		if pinned.Base != from || pinned.Quote != to {
			return domain.ExchangeRate{}, fmt.Errorf("%w: supplied rate quotes %s, conversion needs %s",
				apperrors.ErrValidation, pairString(pinned.Base, pinned.Quote), pairString(from, to))
		}
		if !pinned.Rate.IsPositive() {
			return domain.ExchangeRate{}, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
		}
		if pinned.RateDate.IsZero() {
			pinned.RateDate = date
		}
		if pinned.Source == "" {
			pinned.Source = domain.RateSourceManual
		}
		return pinned, nil
	}

	if s.rates == nil {
		return domain.ExchangeRate{}, &apperrors.RateUnavailableError{Base: string(from), Quote: string(to), Date: date.String()}
	}
	rate, ok, err := s.rates.GetRate(ctx, from, to, date, opts.Lookup)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("failed to look up %s rate for %s: %w", pairString(from, to), date, err)
	}
	if !ok {
		return domain.ExchangeRate{}, &apperrors.RateUnavailableError{Base: string(from), Quote: string(to), Date: date.String()}
	}
	return rate, nil
}

// ConvertToFunctional expresses amount in the entity's functional currency.
func (s *ConversionService) ConvertToFunctional(ctx context.Context, amount domain.MonetaryAmount, config domain.EntityCurrencyConfig, date domain.Date) (*domain.DualCurrencyAmount, error) {
	functional := config.FunctionalCurrency
	if _, err := currencyInfo(functional); err != nil {
		return nil, err
	}
	if !config.Allows(amount.Currency) {
		return nil, fmt.Errorf("%w: currency %s is not allowed for entity %s", apperrors.ErrValidation, amount.Currency, config.EntityID)
	}
	if amount.Currency == functional {
		return identityDual(amount, date), nil
	}

	conversion, err := s.ConvertCurrency(ctx, domain.ConversionRequest{
		Amount: amount.Amount,
		From:   amount.Currency,
		To:     functional,
		Date:   date,
	}, portssvc.ConvertOptions{Lookup: providers.LookupOptions{Source: config.RateSourcePreference}})
	if err != nil {
		return nil, err
	}
	return &domain.DualCurrencyAmount{
		Original:     amount,
		Functional:   domain.NewMonetaryAmount(conversion.ConvertedAmount, functional),
		ExchangeRate: conversion.ExchangeRate,
		RateDate:     conversion.RateDate,
		RateSource:   conversion.RateSource,
	}, nil
}

// ConvertFromFunctional converts a functional-currency amount into target.
// The returned DualCurrencyAmount has target as its original side and, like
// every dual amount, an ExchangeRate in functional units per original unit.
func (s *ConversionService) ConvertFromFunctional(ctx context.Context, amount domain.MonetaryAmount, target domain.CurrencyCode, config domain.EntityCurrencyConfig, date domain.Date) (*domain.DualCurrencyAmount, error) {
	functional := config.FunctionalCurrency
	if amount.Currency != functional {
		return nil, &apperrors.CurrencyMismatchError{Expected: string(functional), Actual: string(amount.Currency)}
	}
	if _, err := currencyInfo(functional); err != nil {
		return nil, err
	}
	if target == functional {
		return identityDual(amount, date), nil
	}
	if !config.Allows(target) {
		return nil, fmt.Errorf("%w: currency %s is not allowed for entity %s", apperrors.ErrValidation, target, config.EntityID)
	}

	conversion, err := s.ConvertCurrency(ctx, domain.ConversionRequest{
		Amount: amount.Amount,
		From:   functional,
		To:     target,
		Date:   date,
	}, portssvc.ConvertOptions{Lookup: providers.LookupOptions{Source: config.RateSourcePreference}})
	if err != nil {
		return nil, err
	}
	return &domain.DualCurrencyAmount{
		Original:     domain.NewMonetaryAmount(conversion.ConvertedAmount, target),
		Functional:   amount,
		ExchangeRate: conversion.InverseRate,
		RateDate:     conversion.RateDate,
		RateSource:   conversion.RateSource,
	}, nil
}

func identityDual(amount domain.MonetaryAmount, date domain.Date) *domain.DualCurrencyAmount {
	if date.IsZero() {
		date = domain.Today()
	}
	return &domain.DualCurrencyAmount{
		Original:     amount,
		Functional:   amount,
		ExchangeRate: decimal.NewFromInt(1),
		RateDate:     date,
		RateSource:   domain.RateSourceIdentity,
	}
}
