package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	portssvc "github.com/SscSPs/fx_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// MultiCurrencyService builds dual-currency amounts and aggregate ledger views.
type MultiCurrencyService struct {
	BaseService
	conversion portssvc.ConversionSvc
}

// NewMultiCurrencyService creates a MultiCurrencyService converting through conversion.
func NewMultiCurrencyService(conversion portssvc.ConversionSvc) *MultiCurrencyService {
	return &MultiCurrencyService{conversion: conversion}
}

// CreateDualAmount looks up the rate for date and pairs amount with its
// functional equivalent.
func (s *MultiCurrencyService) CreateDualAmount(ctx context.Context, amount domain.MonetaryAmount, config domain.EntityCurrencyConfig, date domain.Date) (*domain.DualCurrencyAmount, error) {
	return s.conversion.ConvertToFunctional(ctx, amount, config, date)
}

// CreateDualAmountFromRate pairs amount with its functional equivalent at an
// already pinned rate. No lookup happens, so the result cannot drift.
func (s *MultiCurrencyService) CreateDualAmountFromRate(amount domain.MonetaryAmount, functional domain.CurrencyCode, rate decimal.Decimal, rateDate domain.Date, source domain.RateSource) (*domain.DualCurrencyAmount, error) {
	if _, err := currencyInfo(amount.Currency); err != nil {
		return nil, err
	}
	info, err := currencyInfo(functional)
	if err != nil {
		return nil, err
	}
	if amount.Currency == functional {
		return identityDual(amount, rateDate), nil
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if source == "" {
		source = domain.RateSourceManual
	}
	if !source.Valid() {
		return nil, fmt.Errorf("%w: invalid rate source %q", apperrors.ErrValidation, string(source))
	}
	if rateDate.IsZero() {
		rateDate = domain.Today()
	}

	return &domain.DualCurrencyAmount{
		Original:     amount,
		Functional:   domain.NewMonetaryAmount(RoundAmount(amount.Amount.Mul(rate), info.DecimalPlaces, domain.RoundHalfEven), functional),
		ExchangeRate: rate,
		RateDate:     rateDate,
		RateSource:   source,
	}, nil
}

// AggregateToFunctional converts each amount to the functional currency, one
// lookup per element, and sums the results.
func (s *MultiCurrencyService) AggregateToFunctional(ctx context.Context, amounts []domain.MonetaryAmount, config domain.EntityCurrencyConfig, date domain.Date) (*domain.FunctionalAggregate, error) {
	if _, err := currencyInfo(config.FunctionalCurrency); err != nil {
		return nil, err
	}
	agg := newAggregate(config.FunctionalCurrency, len(amounts))
	for i, amount := range amounts {
		dual, err := s.conversion.ConvertToFunctional(ctx, amount, config, date)
		if err != nil {
			s.LogError(ctx, err, "Aggregation failed",
				slog.Int("index", i),
				slog.String("currency", string(amount.Currency)))
			return nil, fmt.Errorf("amount %d (%s): %w", i, amount.Currency, err)
		}
		agg.Add(*dual)
	}
	return agg, nil
}

// AggregateToFunctionalSync is AggregateToFunctional over a caller-supplied
// map of foreign currency to functional rate. A currency missing from the map
// is an error, never an implicit 1:1 or zero.
func (s *MultiCurrencyService) AggregateToFunctionalSync(ctx context.Context, amounts []domain.MonetaryAmount, config domain.EntityCurrencyConfig, rates map[domain.CurrencyCode]decimal.Decimal, rateDate domain.Date) (*domain.FunctionalAggregate, error) {
	functional := config.FunctionalCurrency
	if _, err := currencyInfo(functional); err != nil {
		return nil, err
	}
	agg := newAggregate(functional, len(amounts))
	for _, amount := range amounts {
		if !config.Allows(amount.Currency) {
			return nil, fmt.Errorf("%w: currency %s is not allowed for entity %s", apperrors.ErrValidation, amount.Currency, config.EntityID)
		}
		rate := decimal.NewFromInt(1)
		if amount.Currency != functional {
			var ok bool
			if rate, ok = rates[amount.Currency]; !ok {
				return nil, &apperrors.MissingRateError{From: string(amount.Currency), To: string(functional)}
			}
		}
		dual, err := s.CreateDualAmountFromRate(amount, functional, rate, rateDate, domain.RateSourceManual)
		if err != nil {
			return nil, err
		}
		agg.Add(*dual)
	}
	s.LogDebug(ctx, "Aggregated amounts with supplied rates",
		slog.String("functional_currency", string(functional)),
		slog.Int("count", len(amounts)),
		slog.String("total", agg.Total.Amount.String()))
	return agg, nil
}

func newAggregate(functional domain.CurrencyCode, n int) *domain.FunctionalAggregate {
	return &domain.FunctionalAggregate{
		Total:      domain.NewMonetaryAmount(decimal.Zero, functional),
		Components: make([]domain.DualCurrencyAmount, 0, n),
	}
}

// CalculateExposure nets the debit and credit legs not denominated in
// functional, per currency, largest absolute functional net first. A foreign
// leg whose functional side is in another currency is rejected.
func (s *MultiCurrencyService) CalculateExposure(entries []domain.MultiCurrencyEntry, functional domain.CurrencyCode) ([]domain.CurrencyExposure, error) {
	byCurrency := make(map[domain.CurrencyCode]*domain.CurrencyExposure)
	order := make([]domain.CurrencyCode, 0)

	get := func(code domain.CurrencyCode) *domain.CurrencyExposure {
		e, ok := byCurrency[code]
		if !ok {
			e = &domain.CurrencyExposure{
				Currency:              code,
				TotalDebitForeign:     decimal.Zero,
				TotalCreditForeign:    decimal.Zero,
				TotalDebitFunctional:  decimal.Zero,
				TotalCreditFunctional: decimal.Zero,
			}
			byCurrency[code] = e
			order = append(order, code)
		}
		return e
	}

	for _, entry := range entries {
		for _, leg := range []*domain.DualCurrencyAmount{entry.Debit, entry.Credit} {
			if leg != nil && leg.Original.Currency != functional && leg.Functional.Currency != functional {
				return nil, fmt.Errorf("entry %s: %w", entry.EntryID,
					&apperrors.CurrencyMismatchError{Expected: string(functional), Actual: string(leg.Functional.Currency)})
			}
		}

		touched := make(map[domain.CurrencyCode]bool, 2)
		if leg := entry.Debit; leg != nil && leg.Original.Currency != functional {
			e := get(leg.Original.Currency)
			e.TotalDebitForeign = e.TotalDebitForeign.Add(leg.Original.Amount)
			e.TotalDebitFunctional = e.TotalDebitFunctional.Add(leg.Functional.Amount)
			touched[leg.Original.Currency] = true
		}
		if leg := entry.Credit; leg != nil && leg.Original.Currency != functional {
			e := get(leg.Original.Currency)
			e.TotalCreditForeign = e.TotalCreditForeign.Add(leg.Original.Amount)
			e.TotalCreditFunctional = e.TotalCreditFunctional.Add(leg.Functional.Amount)
			touched[leg.Original.Currency] = true
		}
		for code := range touched {
			byCurrency[code].EntryCount++
		}
	}

	exposures := make([]domain.CurrencyExposure, 0, len(order))
	for _, code := range order {
		e := byCurrency[code]
		e.NetPosition = e.TotalDebitForeign.Sub(e.TotalCreditForeign)
		e.NetFunctional = e.TotalDebitFunctional.Sub(e.TotalCreditFunctional)
		exposures = append(exposures, *e)
	}
	sort.SliceStable(exposures, func(i, j int) bool {
		ai, aj := exposures[i].NetFunctional.Abs(), exposures[j].NetFunctional.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return exposures[i].Currency < exposures[j].Currency
	})
	return exposures, nil
}

type trialBalanceKey struct {
	account  string
	currency domain.CurrencyCode
}

// MultiCurrencyTrialBalance sums entries per (account, currency) in both
// currencies and keeps the rate of the latest-dated leg. Legs already in
// their functional currency are left out. Rows are sorted by account code,
// then currency.
func (s *MultiCurrencyService) MultiCurrencyTrialBalance(entries []domain.MultiCurrencyEntry) []domain.TrialBalanceLine {
	lines := make(map[trialBalanceKey]*domain.TrialBalanceLine)

	add := func(account string, leg *domain.DualCurrencyAmount, debit bool) {
		if leg == nil || leg.IsIdentity() {
			return
		}
		k := trialBalanceKey{account: account, currency: leg.Original.Currency}
		line, ok := lines[k]
		if !ok {
			line = &domain.TrialBalanceLine{
				AccountCode:      account,
				Currency:         leg.Original.Currency,
				DebitForeign:     decimal.Zero,
				CreditForeign:    decimal.Zero,
				DebitFunctional:  decimal.Zero,
				CreditFunctional: decimal.Zero,
				LatestRate:       leg.ExchangeRate,
				LatestRateDate:   leg.RateDate,
			}
			lines[k] = line
		}
		if debit {
			line.DebitForeign = line.DebitForeign.Add(leg.Original.Amount)
			line.DebitFunctional = line.DebitFunctional.Add(leg.Functional.Amount)
		} else {
			line.CreditForeign = line.CreditForeign.Add(leg.Original.Amount)
			line.CreditFunctional = line.CreditFunctional.Add(leg.Functional.Amount)
		}
		if leg.RateDate.After(line.LatestRateDate) {
			line.LatestRate = leg.ExchangeRate
			line.LatestRateDate = leg.RateDate
		}
	}

	for _, entry := range entries {
		add(entry.AccountCode, entry.Debit, true)
		add(entry.AccountCode, entry.Credit, false)
	}

	result := make([]domain.TrialBalanceLine, 0, len(lines))
	for _, line := range lines {
		result = append(result, *line)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AccountCode != result[j].AccountCode {
			return result[i].AccountCode < result[j].AccountCode
		}
		return result[i].Currency < result[j].Currency
	})
	return result
}
