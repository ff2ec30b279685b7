package services

import (
	"context"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

// ConvertOptions carries an optional pinned rate and the lookup preferences
// used when no rate is pinned.
type ConvertOptions struct {
	// Rate, when set, is used as-is and no lookup happens. It must quote
	// request.From against request.To.
	Rate   *domain.ExchangeRate
	Lookup providers.LookupOptions
}

// ConversionSvc converts amounts between currencies.
type ConversionSvc interface {
	ConvertCurrency(ctx context.Context, req domain.ConversionRequest, opts ConvertOptions) (*domain.FxConversion, error)
	ConvertToFunctional(ctx context.Context, amount domain.MonetaryAmount, config domain.EntityCurrencyConfig, date domain.Date) (*domain.DualCurrencyAmount, error)
	ConvertFromFunctional(ctx context.Context, amount domain.MonetaryAmount, target domain.CurrencyCode, config domain.EntityCurrencyConfig, date domain.Date) (*domain.DualCurrencyAmount, error)
}

// GainLossSvc turns rate movement into reportable gain or loss.
type GainLossSvc interface {
	CalculateRealizedGainLoss(ctx context.Context, txn domain.ForeignTransaction, settlement domain.Settlement, opts domain.RealizedOptions) (*domain.FxGainLoss, error)
	CalculateUnrealizedGainLoss(ctx context.Context, position domain.OpenPosition, currentRate decimal.Decimal, revaluationDate domain.Date) (*domain.FxGainLoss, error)
	RevaluePositions(ctx context.Context, positions []domain.OpenPosition, rates map[domain.CurrencyCode]decimal.Decimal, revaluationDate domain.Date) (*domain.RevaluationResult, error)
}

// MultiCurrencySvc builds dual-currency amounts and aggregate ledger views.
type MultiCurrencySvc interface {
	CreateDualAmount(ctx context.Context, amount domain.MonetaryAmount, config domain.EntityCurrencyConfig, date domain.Date) (*domain.DualCurrencyAmount, error)
	CreateDualAmountFromRate(amount domain.MonetaryAmount, functional domain.CurrencyCode, rate decimal.Decimal, rateDate domain.Date, source domain.RateSource) (*domain.DualCurrencyAmount, error)
	AggregateToFunctional(ctx context.Context, amounts []domain.MonetaryAmount, config domain.EntityCurrencyConfig, date domain.Date) (*domain.FunctionalAggregate, error)
	AggregateToFunctionalSync(ctx context.Context, amounts []domain.MonetaryAmount, config domain.EntityCurrencyConfig, rates map[domain.CurrencyCode]decimal.Decimal, rateDate domain.Date) (*domain.FunctionalAggregate, error)
	CalculateExposure(entries []domain.MultiCurrencyEntry, functional domain.CurrencyCode) ([]domain.CurrencyExposure, error)
	MultiCurrencyTrialBalance(entries []domain.MultiCurrencyEntry) []domain.TrialBalanceLine
}
