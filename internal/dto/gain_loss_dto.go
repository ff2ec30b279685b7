package dto

import (
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ForeignTransactionDTO is a foreign balance booked at BookRate.
type ForeignTransactionDTO struct {
	ForeignAmount      decimal.Decimal     `json:"foreignAmount"`
	ForeignCurrency    domain.CurrencyCode `json:"foreignCurrency" binding:"required,currency"`
	FunctionalCurrency domain.CurrencyCode `json:"functionalCurrency" binding:"required,currency"`
	BookRate           decimal.Decimal     `json:"bookRate"`
	BookDate           domain.Date         `json:"bookDate"`
	ReferenceID        string              `json:"referenceID"`
}

// RealizedGainLossRequest defines the structure for a settlement calculation.
type RealizedGainLossRequest struct {
	Transaction            ForeignTransactionDTO      `json:"transaction" binding:"required"`
	SettlementRate         decimal.Decimal            `json:"settlementRate"`
	SettlementDate         domain.Date                `json:"settlementDate"`
	SettledAmount          *decimal.Decimal           `json:"settledAmount,omitempty"`
	Direction              domain.SettlementDirection `json:"direction" binding:"omitempty,oneof=RECEIVABLE PAYABLE"`
	ApplyPersonalExemption bool                       `json:"applyPersonalExemption"`
	ExemptionAmount        *decimal.Decimal           `json:"exemptionAmount,omitempty"`
}

// ToDomain splits the request into the engine's inputs.
func (r RealizedGainLossRequest) ToDomain() (domain.ForeignTransaction, domain.Settlement, domain.RealizedOptions) {
	t := r.Transaction
	txn := domain.ForeignTransaction{
		ForeignAmount:      t.ForeignAmount,
		ForeignCurrency:    t.ForeignCurrency,
		FunctionalCurrency: t.FunctionalCurrency,
		BookRate:           t.BookRate,
		BookDate:           t.BookDate,
		ReferenceID:        t.ReferenceID,
	}
	settlement := domain.Settlement{
		SettlementRate: r.SettlementRate,
		SettlementDate: r.SettlementDate,
		SettledAmount:  r.SettledAmount,
	}
	opts := domain.RealizedOptions{
		Direction:              r.Direction,
		ApplyPersonalExemption: r.ApplyPersonalExemption,
		ExemptionAmount:        r.ExemptionAmount,
	}
	return txn, settlement, opts
}

// OpenPositionDTO is an outstanding foreign balance. Liabilities carry a
// negative ForeignAmount.
type OpenPositionDTO struct {
	ForeignAmount      decimal.Decimal     `json:"foreignAmount"`
	ForeignCurrency    domain.CurrencyCode `json:"foreignCurrency" binding:"required,currency"`
	FunctionalCurrency domain.CurrencyCode `json:"functionalCurrency" binding:"required,currency"`
	BookRate           decimal.Decimal     `json:"bookRate"`
	BookDate           domain.Date         `json:"bookDate"`
	ReferenceID        string              `json:"referenceID"`
}

// ToDomain converts the DTO to a domain.OpenPosition.
func (p OpenPositionDTO) ToDomain() domain.OpenPosition {
	return domain.OpenPosition{
		ForeignAmount:      p.ForeignAmount,
		ForeignCurrency:    p.ForeignCurrency,
		FunctionalCurrency: p.FunctionalCurrency,
		BookRate:           p.BookRate,
		BookDate:           p.BookDate,
		ReferenceID:        p.ReferenceID,
	}
}

// UnrealizedGainLossRequest revalues one open position.
type UnrealizedGainLossRequest struct {
	Position        OpenPositionDTO `json:"position" binding:"required"`
	CurrentRate     decimal.Decimal `json:"currentRate"`
	RevaluationDate domain.Date     `json:"revaluationDate"`
}

// RevaluationRequest revalues a batch of positions with one rate per foreign currency.
type RevaluationRequest struct {
	Positions       []OpenPositionDTO                       `json:"positions" binding:"required,min=1,dive"`
	Rates           map[domain.CurrencyCode]decimal.Decimal `json:"rates" binding:"required,dive,keys,currency,endkeys"`
	RevaluationDate domain.Date                             `json:"revaluationDate"`
}

// PositionsToDomain converts every position.
func (r RevaluationRequest) PositionsToDomain() []domain.OpenPosition {
	positions := make([]domain.OpenPosition, len(r.Positions))
	for i, p := range r.Positions {
		positions[i] = p.ToDomain()
	}
	return positions
}
