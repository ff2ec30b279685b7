package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MultiCurrencyServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	rates   *MockRateReader
	config  domain.EntityCurrencyConfig
	service *services.MultiCurrencyService
}

func (suite *MultiCurrencyServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.rates = new(MockRateReader)
	suite.config = domain.EntityCurrencyConfig{EntityID: "ent-1", FunctionalCurrency: "USD"}
	suite.service = services.NewMultiCurrencyService(services.NewConversionService(suite.rates))
}

func TestMultiCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MultiCurrencyServiceTestSuite))
}

func dual(original, originalCcy, functional, rate, date string) *domain.DualCurrencyAmount {
	return &domain.DualCurrencyAmount{
		Original:     money(original, originalCcy),
		Functional:   money(functional, "USD"),
		ExchangeRate: dec(rate),
		RateDate:     d(date),
		RateSource:   domain.RateSourceCentralBank,
	}
}

func (suite *MultiCurrencyServiceTestSuite) TestCreateDualAmount_LooksUpRate() {
	suite.rates.On("GetRate", mock.Anything, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD"), d("2024-03-01"), mock.Anything).
		Return(rateOf("EUR", "USD", "1.0850", "2024-03-01", domain.RateSourceCentralBank), true, nil)

	got, err := suite.service.CreateDualAmount(suite.ctx, money("100", "EUR"), suite.config, d("2024-03-01"))

	suite.Require().NoError(err)
	suite.Equal("108.50", got.Functional.Amount.StringFixed(2))
	suite.Equal(domain.RateSourceCentralBank, got.RateSource)
}

func (suite *MultiCurrencyServiceTestSuite) TestCreateDualAmountFromRate() {
	got, err := suite.service.CreateDualAmountFromRate(money("333.33", "EUR"), "USD", dec("1.0851"), d("2024-03-01"), "")

	suite.Require().NoError(err)
	suite.Equal("361.70", got.Functional.Amount.StringFixed(2))
	suite.Equal(domain.RateSourceManual, got.RateSource)
	suite.Equal("2024-03-01", got.RateDate.String())

	identity, err := suite.service.CreateDualAmountFromRate(money("5", "USD"), "USD", dec("3"), d("2024-03-01"), "")
	suite.Require().NoError(err)
	suite.True(identity.IsIdentity())
	suite.True(identity.ExchangeRate.Equal(decimal.NewFromInt(1)), "the supplied rate is ignored for same-currency amounts")

	_, err = suite.service.CreateDualAmountFromRate(money("5", "EUR"), "USD", decimal.Zero, d("2024-03-01"), "")
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.CreateDualAmountFromRate(money("5", "EUR"), "USD", dec("1.1"), d("2024-03-01"), "RUMOUR")
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.CreateDualAmountFromRate(money("5", "EUR"), "ABC", dec("1.1"), d("2024-03-01"), "")
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
}

func (suite *MultiCurrencyServiceTestSuite) TestAggregateToFunctional() {
	suite.rates.On("GetRate", mock.Anything, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD"), d("2024-03-01"), mock.Anything).
		Return(rateOf("EUR", "USD", "1.10", "2024-03-01", domain.RateSourceCentralBank), true, nil)
	suite.rates.On("GetRate", mock.Anything, domain.CurrencyCode("GBP"), domain.CurrencyCode("USD"), d("2024-03-01"), mock.Anything).
		Return(rateOf("GBP", "USD", "1.25", "2024-03-01", domain.RateSourceCentralBank), true, nil)

	agg, err := suite.service.AggregateToFunctional(suite.ctx, []domain.MonetaryAmount{
		money("100", "EUR"),
		money("200", "GBP"),
		money("50", "USD"),
	}, suite.config, d("2024-03-01"))

	suite.Require().NoError(err)
	suite.Equal(domain.CurrencyCode("USD"), agg.Total.Currency)
	suite.Equal("410.00", agg.Total.Amount.StringFixed(2))
	suite.Len(agg.Components, 3)
}

func (suite *MultiCurrencyServiceTestSuite) TestAggregateToFunctional_FailsWhenAnyRateIsMissing() {
	suite.rates.On("GetRate", mock.Anything, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD"), mock.Anything, mock.Anything).
		Return(domain.ExchangeRate{}, false, nil)

	agg, err := suite.service.AggregateToFunctional(suite.ctx, []domain.MonetaryAmount{money("10", "USD"), money("1", "EUR")}, suite.config, d("2024-03-01"))

	suite.Nil(agg)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.Contains(err.Error(), "amount 1 (EUR)")
}

func (suite *MultiCurrencyServiceTestSuite) TestAggregateToFunctionalSync() {
	rates := map[domain.CurrencyCode]decimal.Decimal{"EUR": dec("1.10"), "JPY": dec("0.0067")}

	agg, err := suite.service.AggregateToFunctionalSync(suite.ctx, []domain.MonetaryAmount{
		money("100", "EUR"),
		money("10000", "JPY"),
		money("1.5", "USD"),
	}, suite.config, rates, d("2024-03-01"))

	suite.Require().NoError(err)
	suite.Equal("178.50", agg.Total.Amount.StringFixed(2))
	suite.rates.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	empty, err := suite.service.AggregateToFunctionalSync(suite.ctx, nil, suite.config, rates, d("2024-03-01"))
	suite.Require().NoError(err)
	suite.True(empty.Total.Amount.IsZero())
	suite.Empty(empty.Components)
}

func (suite *MultiCurrencyServiceTestSuite) TestAggregateToFunctionalSync_MissingRate() {
	_, err := suite.service.AggregateToFunctionalSync(suite.ctx, []domain.MonetaryAmount{money("1", "CHF")},
		suite.config, map[domain.CurrencyCode]decimal.Decimal{"EUR": dec("1.1")}, d("2024-03-01"))

	suite.Require().ErrorIs(err, apperrors.ErrMissingRate)
	var missing *apperrors.MissingRateError
	suite.Require().True(errors.As(err, &missing))
	suite.Equal("CHF", missing.From)
}

func (suite *MultiCurrencyServiceTestSuite) TestCalculateExposure() {
	entries := []domain.MultiCurrencyEntry{
		{EntryID: "e1", AccountCode: "1200", Debit: dual("1000", "EUR", "1100", "1.10", "2024-03-01")},
		{EntryID: "e2", AccountCode: "2100", Credit: dual("400", "EUR", "444", "1.11", "2024-03-02")},
		{EntryID: "e3", AccountCode: "1200", Debit: dual("100", "GBP", "125", "1.25", "2024-03-01"),
			Credit: dual("100", "USD", "100", "1", "2024-03-01")},
		{EntryID: "e4", AccountCode: "1300", Debit: dual("100000", "JPY", "670", "0.0067", "2024-03-01"),
			Credit: dual("50000", "JPY", "335", "0.0067", "2024-03-01")},
	}

	exposures, err := suite.service.CalculateExposure(entries, "USD")

	suite.Require().NoError(err)
	suite.Require().Len(exposures, 3)
	suite.Equal(domain.CurrencyCode("EUR"), exposures[0].Currency)
	suite.Equal("600", exposures[0].NetPosition.String())
	suite.Equal("656", exposures[0].NetFunctional.String())
	suite.Equal(2, exposures[0].EntryCount)

	suite.Equal(domain.CurrencyCode("JPY"), exposures[1].Currency)
	suite.Equal("50000", exposures[1].NetPosition.String())
	suite.Equal("335", exposures[1].NetFunctional.String())
	suite.Equal(1, exposures[1].EntryCount, "an entry touching a currency on both legs counts once")

	suite.Equal(domain.CurrencyCode("GBP"), exposures[2].Currency)
	suite.Equal("125", exposures[2].NetFunctional.String())
}

func (suite *MultiCurrencyServiceTestSuite) TestCalculateExposure_FunctionalOnly() {
	entries := []domain.MultiCurrencyEntry{
		{EntryID: "e1", AccountCode: "1000", Debit: dual("10", "USD", "10", "1", "2024-03-01")},
	}

	exposures, err := suite.service.CalculateExposure(entries, "USD")

	suite.Require().NoError(err)
	suite.NotNil(exposures)
	suite.Empty(exposures)
}

func (suite *MultiCurrencyServiceTestSuite) TestCalculateExposure_RejectsOtherFunctionalCurrency() {
	leg := dual("100", "EUR", "85", "0.85", "2024-03-01")
	leg.Functional.Currency = "GBP"
	entries := []domain.MultiCurrencyEntry{{EntryID: "e9", AccountCode: "1200", Debit: leg}}

	exposures, err := suite.service.CalculateExposure(entries, "USD")

	suite.Nil(exposures)
	suite.ErrorIs(err, apperrors.ErrCurrencyMismatch)
	suite.Contains(err.Error(), "e9")
}

func (suite *MultiCurrencyServiceTestSuite) TestMultiCurrencyTrialBalance() {
	entries := []domain.MultiCurrencyEntry{
		{EntryID: "e1", AccountCode: "2100", Credit: dual("50", "GBP", "62.50", "1.25", "2024-03-01")},
		{EntryID: "e2", AccountCode: "1200", Debit: dual("100", "EUR", "110", "1.10", "2024-03-01")},
		{EntryID: "e3", AccountCode: "1200", Debit: dual("200", "EUR", "224", "1.12", "2024-03-05")},
		{EntryID: "e4", AccountCode: "1200", Credit: dual("50", "EUR", "55.50", "1.11", "2024-03-03")},
		{EntryID: "e5", AccountCode: "1200", Debit: dual("70", "USD", "70", "1", "2024-03-09")},
		{EntryID: "e6", AccountCode: "1200", Debit: dual("10", "CHF", "11.30", "1.13", "2024-03-01")},
	}

	lines := suite.service.MultiCurrencyTrialBalance(entries)

	suite.Require().Len(lines, 3)
	suite.Equal("1200", lines[0].AccountCode)
	suite.Equal(domain.CurrencyCode("CHF"), lines[0].Currency)

	eur := lines[1]
	suite.Equal("1200", eur.AccountCode)
	suite.Equal(domain.CurrencyCode("EUR"), eur.Currency)
	suite.Equal("300", eur.DebitForeign.String())
	suite.Equal("50", eur.CreditForeign.String())
	suite.Equal("334", eur.DebitFunctional.String())
	suite.Equal("55.5", eur.CreditFunctional.String())
	suite.Equal("1.12", eur.LatestRate.String())
	suite.Equal("2024-03-05", eur.LatestRateDate.String())

	suite.Equal("2100", lines[2].AccountCode)
	suite.Equal(domain.CurrencyCode("GBP"), lines[2].Currency)
	suite.Equal("50", lines[2].CreditForeign.String())
	suite.True(lines[2].DebitForeign.IsZero())
}
