package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource tags where an exchange rate observation came from.
type RateSource string

const (
	RateSourceCentralBank RateSource = "CENTRAL_BANK"
	RateSourceManual      RateSource = "MANUAL"
	RateSourceDatabase    RateSource = "DATABASE"
	// RateSourceIdentity marks the same-currency no-op conversion (rate 1).
	RateSourceIdentity RateSource = "IDENTITY"
)

// Valid reports whether s is one of the known sources.
func (s RateSource) Valid() bool {
	switch s {
	case RateSourceCentralBank, RateSourceManual, RateSourceDatabase, RateSourceIdentity:
		return true
	}
	return false
}

// ExchangeRate is one observed rate: 1 unit of Base is worth Rate units of Quote
// on RateDate. Values are never mutated after creation.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID,omitempty"`
	Base           CurrencyCode    `json:"baseCurrency"`
	Quote          CurrencyCode    `json:"quoteCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	RateDate       Date            `json:"rateDate"`
	Source         RateSource      `json:"source"`
	FetchedAt      time.Time       `json:"fetchedAt"`
}

// Inverse returns the reciprocal observation (Quote→Base) with the same date,
// source and fetch time.
func (r ExchangeRate) Inverse() ExchangeRate {
	inv := r
	inv.Base, inv.Quote = r.Quote, r.Base
	inv.Rate = InverseOf(r.Rate)
	inv.ExchangeRateID = ""
	return inv
}

// InverseOf returns 1/rate, or zero for a zero rate.
func InverseOf(rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(rate)
}
