package dto

import (
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DualAmountRequest pairs an amount with its functional equivalent. When Rate
// is set no lookup happens.
type DualAmountRequest struct {
	Amount     MoneyDTO          `json:"amount" binding:"required"`
	Entity     EntityConfigDTO   `json:"entity" binding:"required"`
	Date       domain.Date       `json:"date"`
	Rate       *decimal.Decimal  `json:"rate,omitempty"`
	RateSource domain.RateSource `json:"rateSource" binding:"omitempty,oneof=CENTRAL_BANK MANUAL DATABASE"`
}

// AggregateRequest sums amounts in the entity's functional currency. With
// Rates set, the supplied map is used instead of lookups.
type AggregateRequest struct {
	Amounts []MoneyDTO                              `json:"amounts" binding:"dive"`
	Entity  EntityConfigDTO                         `json:"entity" binding:"required"`
	Date    domain.Date                             `json:"date"`
	Rates   map[domain.CurrencyCode]decimal.Decimal `json:"rates,omitempty" binding:"omitempty,dive,keys,currency,endkeys"`
}

// AmountsToDomain converts every amount.
func (r AggregateRequest) AmountsToDomain() []domain.MonetaryAmount {
	amounts := make([]domain.MonetaryAmount, len(r.Amounts))
	for i, a := range r.Amounts {
		amounts[i] = a.ToDomain()
	}
	return amounts
}

// ExposureRequest carries the ledger entries to net per foreign currency.
type ExposureRequest struct {
	FunctionalCurrency domain.CurrencyCode         `json:"functionalCurrency" binding:"required,currency"`
	Entries            []domain.MultiCurrencyEntry `json:"entries"`
}

// TrialBalanceRequest carries the ledger entries to summarise.
type TrialBalanceRequest struct {
	Entries []domain.MultiCurrencyEntry `json:"entries"`
}
