package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GainLossService computes realized and unrealized FX gain or loss. Each leg
// is rounded to the functional currency's minor unit with banker's rounding
// before the legs are subtracted.
type GainLossService struct {
	BaseService
	now func() time.Time
}

// NewGainLossService creates a GainLossService. A nil now means time.Now.
func NewGainLossService(now func() time.Time) *GainLossService {
	if now == nil {
		now = time.Now
	}
	return &GainLossService{now: now}
}

// CalculateRealizedGainLoss compares the functional value of the settled
// foreign amount at the settlement rate against its value at the book rate.
// Payables invert the sign. The per-disposition exemption is applied only
// when opts asks for it.
func (s *GainLossService) CalculateRealizedGainLoss(ctx context.Context, txn domain.ForeignTransaction, settlement domain.Settlement, opts domain.RealizedOptions) (*domain.FxGainLoss, error) {
	if !opts.Direction.Valid() {
		return nil, fmt.Errorf("%w: unknown settlement direction %q", apperrors.ErrValidation, string(opts.Direction))
	}
	info, err := s.validateLeg(txn.ForeignCurrency, txn.FunctionalCurrency, txn.BookRate, settlement.SettlementRate)
	if err != nil {
		return nil, err
	}

	settled := txn.ForeignAmount
	if settlement.SettledAmount != nil {
		settled = *settlement.SettledAmount
		if settled.IsZero() || settled.Sign() != txn.ForeignAmount.Sign() {
			return nil, fmt.Errorf("%w: settled amount %s must be non-zero with the sign of the booked amount %s",
				apperrors.ErrValidation, settled, txn.ForeignAmount)
		}
		if settled.Abs().GreaterThan(txn.ForeignAmount.Abs()) {
			return nil, fmt.Errorf("%w: settled amount %s exceeds the booked amount %s",
				apperrors.ErrValidation, settled, txn.ForeignAmount)
		}
	}

	raw := functionalDelta(settled, txn.BookRate, settlement.SettlementRate, info.DecimalPlaces)
	if opts.Direction == domain.Payable {
		raw = raw.Neg()
	}

	result := &domain.FxGainLoss{
		Type:                    domain.Realized,
		Amount:                  raw,
		RawAmount:               raw,
		FunctionalCurrency:      txn.FunctionalCurrency,
		OriginalAmount:          settled,
		OriginalCurrency:        txn.ForeignCurrency,
		BookRate:                txn.BookRate,
		BookDate:                txn.BookDate,
		CurrentRate:             settlement.SettlementRate,
		CurrentDate:             settlement.SettlementDate,
		PersonalExemptionAmount: decimal.Zero,
		ReferenceID:             txn.ReferenceID,
		CalculatedAt:            s.now(),
	}

	if opts.ApplyPersonalExemption {
		exemption := domain.DefaultPersonalExemption
		if opts.ExemptionAmount != nil {
			exemption = *opts.ExemptionAmount
			if exemption.IsNegative() {
				return nil, fmt.Errorf("%w: exemption amount cannot be negative", apperrors.ErrValidation)
			}
		}
		result.Amount, result.PersonalExemptionAmount = applyExemption(raw, exemption)
		result.PersonalExemptionApplies = true
	}

	s.LogDebug(ctx, "Realized gain/loss calculated",
		slog.String("reference_id", txn.ReferenceID),
		slog.String("raw_amount", raw.String()),
		slog.String("amount", result.Amount.String()),
		slog.Bool("exemption_applied", result.PersonalExemptionApplies))
	return result, nil
}

// applyExemption removes the first exemption-sized slice of raw, keeping its
// sign. It returns the reportable amount and the part actually exempted.
func applyExemption(raw, exemption decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if raw.Abs().LessThanOrEqual(exemption) {
		return decimal.Zero, raw.Abs()
	}
	if raw.IsNegative() {
		return raw.Add(exemption), exemption
	}
	return raw.Sub(exemption), exemption
}

// CalculateUnrealizedGainLoss revalues an open position at currentRate. A
// positive foreign amount is an asset; liabilities carry a negative amount.
// The exemption never applies.
func (s *GainLossService) CalculateUnrealizedGainLoss(ctx context.Context, position domain.OpenPosition, currentRate decimal.Decimal, revaluationDate domain.Date) (*domain.FxGainLoss, error) {
	info, err := s.validateLeg(position.ForeignCurrency, position.FunctionalCurrency, position.BookRate, currentRate)
	if err != nil {
		return nil, err
	}
	return s.unrealized(position, currentRate, revaluationDate, info), nil
}

func (s *GainLossService) unrealized(position domain.OpenPosition, currentRate decimal.Decimal, revaluationDate domain.Date, info domain.CurrencyInfo) *domain.FxGainLoss {
	raw := functionalDelta(position.ForeignAmount, position.BookRate, currentRate, info.DecimalPlaces)
	return &domain.FxGainLoss{
		Type:                    domain.Unrealized,
		Amount:                  raw,
		RawAmount:               raw,
		FunctionalCurrency:      position.FunctionalCurrency,
		OriginalAmount:          position.ForeignAmount,
		OriginalCurrency:        position.ForeignCurrency,
		BookRate:                position.BookRate,
		BookDate:                position.BookDate,
		CurrentRate:             currentRate,
		CurrentDate:             revaluationDate,
		PersonalExemptionAmount: decimal.Zero,
		ReferenceID:             position.ReferenceID,
		CalculatedAt:            s.now(),
	}
}

// RevaluePositions revalues a batch of open positions sharing one functional
// currency. rates maps each foreign currency to its current rate against the
// functional currency. The whole batch is validated before any result is
// computed.
func (s *GainLossService) RevaluePositions(ctx context.Context, positions []domain.OpenPosition, rates map[domain.CurrencyCode]decimal.Decimal, revaluationDate domain.Date) (*domain.RevaluationResult, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no positions to revalue", apperrors.ErrInconsistentBatch)
	}
	functional := positions[0].FunctionalCurrency
	for _, p := range positions[1:] {
		if p.FunctionalCurrency != functional {
			return nil, fmt.Errorf("%w: positions mix functional currencies %s and %s",
				apperrors.ErrInconsistentBatch, functional, p.FunctionalCurrency)
		}
	}
	info, err := currencyInfo(functional)
	if err != nil {
		return nil, err
	}
	for _, p := range positions {
		current, ok := rates[p.ForeignCurrency]
		if !ok {
			return nil, &apperrors.MissingRateError{From: string(p.ForeignCurrency), To: string(functional)}
		}
		if _, err := s.validateLeg(p.ForeignCurrency, functional, p.BookRate, current); err != nil {
			return nil, err
		}
	}

	result := &domain.RevaluationResult{
		FunctionalCurrency: functional,
		RevaluationDate:    revaluationDate,
		Results:            make([]domain.FxGainLoss, 0, len(positions)),
		TotalGain:          decimal.Zero,
		TotalLoss:          decimal.Zero,
	}
	for _, p := range positions {
		gl := s.unrealized(p, rates[p.ForeignCurrency], revaluationDate, info)
		result.Results = append(result.Results, *gl)
		if gl.Amount.IsPositive() {
			result.TotalGain = result.TotalGain.Add(gl.Amount)
		} else {
			result.TotalLoss = result.TotalLoss.Add(gl.Amount)
		}
	}
	result.NetGainLoss = result.TotalGain.Add(result.TotalLoss)

	s.LogInfo(ctx, "Positions revalued",
		slog.String("functional_currency", string(functional)),
		slog.String("revaluation_date", revaluationDate.String()),
		slog.Int("positions", len(positions)),
		slog.String("net", result.NetGainLoss.String()))
	return result, nil
}

func (s *GainLossService) validateLeg(foreign, functional domain.CurrencyCode, bookRate, currentRate decimal.Decimal) (domain.CurrencyInfo, error) {
	if _, err := currencyInfo(foreign); err != nil {
		return domain.CurrencyInfo{}, err
	}
	info, err := currencyInfo(functional)
	if err != nil {
		return domain.CurrencyInfo{}, err
	}
	if !bookRate.IsPositive() || !currentRate.IsPositive() {
		return domain.CurrencyInfo{}, fmt.Errorf("%w: exchange rates must be positive", apperrors.ErrValidation)
	}
	return info, nil
}

// functionalDelta is round(amount*current) - round(amount*book).
func functionalDelta(amount, bookRate, currentRate decimal.Decimal, decimals int32) decimal.Decimal {
	atBook := RoundAmount(amount.Mul(bookRate), decimals, domain.RoundHalfEven)
	atCurrent := RoundAmount(amount.Mul(currentRate), decimals, domain.RoundHalfEven)
	return atCurrent.Sub(atBook)
}
