package services

import (
	"fmt"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RoundAmount rounds value to decimals places. RoundHalfEven (the default)
// sends exact midpoints to the even neighbour; RoundHalfUp sends them away
// from zero. Decimal arithmetic is exact, so the midpoint test needs no
// tolerance.
func RoundAmount(value decimal.Decimal, decimals int32, mode domain.RoundingMode) decimal.Decimal {
	switch mode.OrDefault() {
	case domain.RoundHalfUp:
		return value.Round(decimals)
	default:
		return value.RoundBank(decimals)
	}
}

// roundToCurrency rounds value to the minor unit of code.
func roundToCurrency(value decimal.Decimal, code domain.CurrencyCode, mode domain.RoundingMode) (decimal.Decimal, error) {
	info, err := currencyInfo(code)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundAmount(value, info.DecimalPlaces, mode), nil
}

func currencyInfo(code domain.CurrencyCode) (domain.CurrencyInfo, error) {
	info, ok := domain.LookupCurrency(code)
	if !ok {
		return domain.CurrencyInfo{}, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedCurrency, string(code))
	}
	return info, nil
}
