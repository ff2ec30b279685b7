package dto

import (
	"github.com/SscSPs/fx_engine/internal/core/domain"
)

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode  string `json:"currencyCode"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	DecimalPlaces int32  `json:"decimalPlaces"`
	NumericCode   string `json:"numericCode"`
}

// ToCurrencyResponse converts a domain.CurrencyInfo to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.CurrencyInfo) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  string(curr.Code),
		Symbol:        curr.Symbol,
		Name:          curr.Name,
		DecimalPlaces: curr.DecimalPlaces,
		NumericCode:   curr.NumericCode,
	}
}

// ToListCurrencyResponse converts a slice of domain.CurrencyInfo to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.CurrencyInfo) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
