package services_test

import (
	"testing"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name   string
		amount domain.MonetaryAmount
		locale string
		want   string
	}{
		{name: "two decimals with grouping", amount: money("1234.567", "USD"), locale: "en-US", want: "$1,234.57"},
		{name: "pads minor digits", amount: money("5", "EUR"), locale: "en", want: "€5.00"},
		{name: "zero decimal currency", amount: money("1234567.4", "JPY"), locale: "en", want: "¥1,234,567"},
		{name: "three decimal currency", amount: money("12.3456", "KWD"), locale: "en", want: "KD12.346"},
		{name: "negative amount", amount: money("-1234.5", "GBP"), locale: "en", want: "-£1,234.50"},
		{name: "empty locale", amount: money("10", "USD"), locale: "", want: "$10.00"},
		{name: "unparseable locale", amount: money("10", "USD"), locale: "not a locale!", want: "$10.00"},
		{name: "beyond float64 precision", amount: money("12345678901234567.89", "USD"), locale: "en", want: "$12,345,678,901,234,567.89"},
		{name: "leading zero minor digits", amount: money("0.05", "USD"), locale: "en", want: "$0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.FormatMoney(tt.amount, tt.locale))
		})
	}
}

func TestFormatMoney_LocaleSeparators(t *testing.T) {
	assert.Equal(t, "€1.234,57", services.FormatMoney(money("1234.567", "EUR"), "de-DE"))
	assert.Equal(t, "€98.765.432.109.876.543,21", services.FormatMoney(money("98765432109876543.21", "EUR"), "de-DE"))
}

func TestFormatDualCurrency(t *testing.T) {
	dual := domain.DualCurrencyAmount{
		Original:     money("100", "EUR"),
		Functional:   money("108.5", "USD"),
		ExchangeRate: dec("1.085"),
		RateDate:     d("2024-03-01"),
		RateSource:   domain.RateSourceCentralBank,
	}
	assert.Equal(t, "$108.50 (€100.00 @ 1.085)", services.FormatDualCurrency(dual, "en"))

	identity := domain.DualCurrencyAmount{
		Original:     money("42", "USD"),
		Functional:   money("42", "USD"),
		ExchangeRate: dec("1"),
	}
	assert.Equal(t, "$42.00", services.FormatDualCurrency(identity, "en"))
}
