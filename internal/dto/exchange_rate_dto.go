package dto

import (
	"time"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for recording a manual exchange rate.
type CreateExchangeRateRequest struct {
	BaseCurrency  domain.CurrencyCode `json:"baseCurrency" binding:"required,currency"`
	QuoteCurrency domain.CurrencyCode `json:"quoteCurrency" binding:"required,currency,nefield=BaseCurrency"`
	Rate          decimal.Decimal     `json:"rate" binding:"required"`
	RateDate      domain.Date         `json:"rateDate" binding:"required"`
	Source        domain.RateSource   `json:"source" binding:"omitempty,oneof=CENTRAL_BANK MANUAL DATABASE"`
}

// ToDomain builds the rate to record.
func (r CreateExchangeRateRequest) ToDomain() domain.ExchangeRate {
	return domain.ExchangeRate{
		Base:     r.BaseCurrency,
		Quote:    r.QuoteCurrency,
		Rate:     r.Rate,
		RateDate: r.RateDate,
		Source:   r.Source,
	}
}

// DailyRatesRequest records one base currency's rates for a date.
type DailyRatesRequest struct {
	BaseCurrency domain.CurrencyCode                     `json:"baseCurrency" binding:"required,currency"`
	RateDate     domain.Date                             `json:"rateDate" binding:"required"`
	Rates        map[domain.CurrencyCode]decimal.Decimal `json:"rates" binding:"required,min=1,dive,keys,currency,endkeys"`
	Source       domain.RateSource                       `json:"source" binding:"omitempty,oneof=CENTRAL_BANK MANUAL DATABASE"`
}

// DailyRatesResponse reports how many rates were recorded.
type DailyRatesResponse struct {
	Loaded int `json:"loaded"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID string          `json:"exchangeRateID,omitempty"`
	BaseCurrency   string          `json:"baseCurrency"`
	QuoteCurrency  string          `json:"quoteCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	InverseRate    decimal.Decimal `json:"inverseRate"`
	RateDate       domain.Date     `json:"rateDate"`
	Source         string          `json:"source"`
	FetchedAt      time.Time       `json:"fetchedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: rate.ExchangeRateID,
		BaseCurrency:   string(rate.Base),
		QuoteCurrency:  string(rate.Quote),
		Rate:           rate.Rate,
		InverseRate:    domain.InverseOf(rate.Rate),
		RateDate:       rate.RateDate,
		Source:         string(rate.Source),
		FetchedAt:      rate.FetchedAt,
	}
}

// StoredRatesResponse lists the rates stored for one base currency and date.
type StoredRatesResponse struct {
	BaseCurrency string                 `json:"baseCurrency"`
	RateDate     domain.Date            `json:"rateDate"`
	Rates        []ExchangeRateResponse `json:"rates"`
}

// ToStoredRatesResponse converts stored rates to their DTO form.
func ToStoredRatesResponse(base domain.CurrencyCode, date domain.Date, rates []domain.ExchangeRate) StoredRatesResponse {
	resp := StoredRatesResponse{
		BaseCurrency: string(base),
		RateDate:     date,
		Rates:        make([]ExchangeRateResponse, 0, len(rates)),
	}
	for i := range rates {
		resp.Rates = append(resp.Rates, ToExchangeRateResponse(&rates[i]))
	}
	return resp
}
