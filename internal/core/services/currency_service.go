package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
)

// CurrencyService serves the built-in currency registry.
type CurrencyService struct {
	BaseService
}

func NewCurrencyService() *CurrencyService {
	return &CurrencyService{}
}

func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.CurrencyInfo, error) {
	code, ok := domain.ParseCurrencyCode(currencyCode)
	if !ok {
		s.LogDebug(ctx, "Unknown currency code requested", "currency_code", currencyCode)
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("currency %q", strings.ToUpper(strings.TrimSpace(currencyCode))))
	}
	info := domain.MustCurrency(code)
	return &info, nil
}

func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error) {
	return domain.SupportedCurrencies(), nil
}
