package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyService_GetCurrencyByCode(t *testing.T) {
	svc := services.NewCurrencyService()

	info, err := svc.GetCurrencyByCode(context.Background(), " jpy ")
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyCode("JPY"), info.Code)
	assert.Equal(t, int32(0), info.DecimalPlaces)
	assert.Equal(t, "392", info.NumericCode)

	_, err = svc.GetCurrencyByCode(context.Background(), "XYZ")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCurrencyService_ListCurrencies(t *testing.T) {
	list, err := services.NewCurrencyService().ListCurrencies(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, string(list[i-1].Code), string(list[i].Code))
	}
}
