package dto

import (
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyDTO is an amount with its currency.
type MoneyDTO struct {
	Amount   decimal.Decimal     `json:"amount"`
	Currency domain.CurrencyCode `json:"currency" binding:"required,currency"`
}

// ToDomain converts the DTO to a domain.MonetaryAmount.
func (m MoneyDTO) ToDomain() domain.MonetaryAmount {
	return domain.NewMonetaryAmount(m.Amount, m.Currency)
}

// EntityConfigDTO is the per-entity currency policy sent by callers.
type EntityConfigDTO struct {
	EntityID             string                `json:"entityID"`
	FunctionalCurrency   domain.CurrencyCode   `json:"functionalCurrency" binding:"required,currency"`
	AllowedCurrencies    []domain.CurrencyCode `json:"allowedCurrencies" binding:"omitempty,dive,currency"`
	RateSourcePreference domain.RateSource     `json:"rateSourcePreference" binding:"omitempty,oneof=CENTRAL_BANK MANUAL DATABASE"`
	AutoRevalue          bool                  `json:"autoRevalue"`
}

// ToDomain converts the DTO to a domain.EntityCurrencyConfig.
func (e EntityConfigDTO) ToDomain() domain.EntityCurrencyConfig {
	return domain.EntityCurrencyConfig{
		EntityID:             e.EntityID,
		FunctionalCurrency:   e.FunctionalCurrency,
		AllowedCurrencies:    e.AllowedCurrencies,
		RateSourcePreference: e.RateSourcePreference,
		AutoRevalue:          e.AutoRevalue,
	}
}

// ConvertRequest defines the structure for converting an amount. A zero date
// means today. When Rate is set it is used as-is and no lookup happens.
type ConvertRequest struct {
	Amount       decimal.Decimal     `json:"amount"`
	From         domain.CurrencyCode `json:"from" binding:"required,currency"`
	To           domain.CurrencyCode `json:"to" binding:"required,currency"`
	Date         domain.Date         `json:"date"`
	RoundingMode domain.RoundingMode `json:"roundingMode" binding:"omitempty,oneof=HALF_EVEN HALF_UP"`
	Rate         *decimal.Decimal    `json:"rate,omitempty"`
	RateSource   domain.RateSource   `json:"rateSource" binding:"omitempty,oneof=CENTRAL_BANK MANUAL DATABASE"`
	EntityID     string              `json:"entityID"`
}

// ToDomain converts the DTO to a domain.ConversionRequest.
func (r ConvertRequest) ToDomain() domain.ConversionRequest {
	return domain.ConversionRequest{
		Amount:       r.Amount,
		From:         r.From,
		To:           r.To,
		Date:         r.Date,
		RoundingMode: r.RoundingMode,
	}
}

// PinnedRate returns the caller-supplied rate as an observation, or nil.
func (r ConvertRequest) PinnedRate() *domain.ExchangeRate {
	if r.Rate == nil {
		return nil
	}
	return &domain.ExchangeRate{
		Base:     r.From,
		Quote:    r.To,
		Rate:     *r.Rate,
		RateDate: r.Date,
		Source:   r.RateSource,
	}
}

// ConversionResponse is the recorded conversion, optionally rendered for a locale.
type ConversionResponse struct {
	domain.FxConversion
	Formatted string `json:"formatted,omitempty"`
}

// ListConversionsParams selects one page of an entity's recorded conversions.
type ListConversionsParams struct {
	EntityID  string  `form:"entityID" binding:"required"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListConversionsResponse is one page of recorded conversions.
type ListConversionsResponse struct {
	Conversions []domain.FxConversion `json:"conversions"`
	NextToken   *string               `json:"nextToken,omitempty"`
}

// ToFunctionalRequest converts an amount into an entity's functional currency.
type ToFunctionalRequest struct {
	Amount MoneyDTO        `json:"amount" binding:"required"`
	Entity EntityConfigDTO `json:"entity" binding:"required"`
	Date   domain.Date     `json:"date"`
}

// FromFunctionalRequest converts a functional-currency amount into Target.
type FromFunctionalRequest struct {
	Amount MoneyDTO            `json:"amount" binding:"required"`
	Target domain.CurrencyCode `json:"target" binding:"required,currency"`
	Entity EntityConfigDTO     `json:"entity" binding:"required"`
	Date   domain.Date         `json:"date"`
}

// DualAmountResponse is a dual-currency amount, optionally rendered for a locale.
type DualAmountResponse struct {
	domain.DualCurrencyAmount
	Formatted string `json:"formatted,omitempty"`
}
