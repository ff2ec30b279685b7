package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundingMode selects how converted amounts are rounded to the currency's
// minor unit.
type RoundingMode string

const (
	// RoundHalfEven is banker's rounding, the default for financial figures.
	RoundHalfEven RoundingMode = "HALF_EVEN"
	// RoundHalfUp rounds midpoints away from zero.
	RoundHalfUp RoundingMode = "HALF_UP"
)

// Valid reports whether m is a known rounding mode. The empty mode is valid
// and means RoundHalfEven.
func (m RoundingMode) Valid() bool {
	switch m {
	case "", RoundHalfEven, RoundHalfUp:
		return true
	}
	return false
}

// OrDefault returns RoundHalfEven for the empty mode.
func (m RoundingMode) OrDefault() RoundingMode {
	if m == "" {
		return RoundHalfEven
	}
	return m
}

// MonetaryAmount is an amount paired with its currency.
type MonetaryAmount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency CurrencyCode    `json:"currency"`
}

// NewMonetaryAmount is a small convenience constructor.
func NewMonetaryAmount(amount decimal.Decimal, currency CurrencyCode) MonetaryAmount {
	return MonetaryAmount{Amount: amount, Currency: currency}
}

// ConversionRequest describes one conversion. A zero Date means today.
type ConversionRequest struct {
	Amount       decimal.Decimal
	From         CurrencyCode
	To           CurrencyCode
	Date         Date
	RoundingMode RoundingMode
}

// FxConversion is the immutable audit record of one completed conversion. It
// carries everything needed to reproduce the computation without a provider.
type FxConversion struct {
	ConversionID       string          `json:"conversionID"`
	OriginalAmount     decimal.Decimal `json:"originalAmount"`
	OriginalCurrency   CurrencyCode    `json:"originalCurrency"`
	ConvertedAmount    decimal.Decimal `json:"convertedAmount"`
	ConvertedCurrency  CurrencyCode    `json:"convertedCurrency"`
	ExchangeRate       decimal.Decimal `json:"exchangeRate"`
	InverseRate        decimal.Decimal `json:"inverseRate"`
	RateDate           Date            `json:"rateDate"`
	RateSource         RateSource      `json:"rateSource"`
	RoundingMode       RoundingMode    `json:"roundingMode"`
	RoundingDifference decimal.Decimal `json:"roundingDifference"` // rounded minus raw
	Timestamp          time.Time       `json:"timestamp"`
}

// DualCurrencyAmount expresses one value in both its original currency and the
// entity's functional currency.
type DualCurrencyAmount struct {
	Original     MonetaryAmount  `json:"original"`
	Functional   MonetaryAmount  `json:"functional"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	RateDate     Date            `json:"rateDate"`
	RateSource   RateSource      `json:"rateSource"`
}

// IsIdentity reports whether both sides share a currency.
func (d DualCurrencyAmount) IsIdentity() bool {
	return d.Original.Currency == d.Functional.Currency
}

// EntityCurrencyConfig is the per-entity currency policy supplied by callers.
type EntityCurrencyConfig struct {
	EntityID             string         `json:"entityID"`
	FunctionalCurrency   CurrencyCode   `json:"functionalCurrency"`
	AllowedCurrencies    []CurrencyCode `json:"allowedCurrencies,omitempty"`
	RateSourcePreference RateSource     `json:"rateSourcePreference,omitempty"`
	AutoRevalue          bool           `json:"autoRevalue"`
}

// Allows reports whether amounts in code may be transacted by the entity. An
// empty allow-list permits every currency.
func (c EntityCurrencyConfig) Allows(code CurrencyCode) bool {
	if len(c.AllowedCurrencies) == 0 || code == c.FunctionalCurrency {
		return true
	}
	for _, allowed := range c.AllowedCurrencies {
		if allowed == code {
			return true
		}
	}
	return false
}
