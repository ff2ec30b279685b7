package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/fx_engine/internal/adapters/providers"
	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	portsproviders "github.com/SscSPs/fx_engine/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/fx_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_engine/internal/core/services"
	"github.com/SscSPs/fx_engine/internal/dto"
	"github.com/SscSPs/fx_engine/internal/handlers"
	"github.com/SscSPs/fx_engine/internal/middleware"
	"github.com/SscSPs/fx_engine/internal/platform/config"
	"github.com/SscSPs/fx_engine/internal/ratecache"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock conversion audit store ---
type MockConversionAudit struct {
	mock.Mock
}

func (m *MockConversionAudit) SaveConversion(ctx context.Context, conversion domain.FxConversion, entityID string) error {
	args := m.Called(ctx, conversion, entityID)
	return args.Error(0)
}

func (m *MockConversionAudit) FindConversionByID(ctx context.Context, conversionID string) (*domain.FxConversion, error) {
	args := m.Called(ctx, conversionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FxConversion), args.Error(1)
}

func (m *MockConversionAudit) ListConversionsByEntity(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.FxConversion, *string, error) {
	args := m.Called(ctx, entityID, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.FxConversion), next, args.Error(2)
}

var _ portsrepo.ConversionAuditRepositoryFacade = (*MockConversionAudit)(nil)

type HandlersTestSuite struct {
	suite.Suite
	router *gin.Engine
	static *providers.StaticRateProvider
	audit  *MockConversionAudit
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.static = providers.NewStaticRateProvider()
	suite.audit = new(MockConversionAudit)
	cfg := &config.Config{IsProduction: true, BusinessDayLookback: 7}

	container := services.NewServiceContainer(cfg, portsproviders.NewRegistry(suite.static), ratecache.New(), suite.static)

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(suite.router, cfg, container, portsrepo.RepositoryProvider{ConversionAuditRepo: suite.audit})
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (suite *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *HandlersTestSuite) seedRate(base, quote, date, rate string) {
	suite.Require().NoError(suite.static.Set(domain.CurrencyCode(base), domain.CurrencyCode(quote), domain.MustParseDate(date), decimal.RequireFromString(rate)))
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlersTestSuite) TestCurrencies() {
	w := suite.do(http.MethodGet, "/api/v1/currencies/jpy", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var jpy dto.CurrencyResponse
	suite.decode(w, &jpy)
	suite.Equal("JPY", jpy.CurrencyCode)
	suite.Equal(int32(0), jpy.DecimalPlaces)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/currencies/XYZ", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/currencies/US", nil).Code)

	w = suite.do(http.MethodGet, "/api/v1/currencies", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var all []dto.CurrencyResponse
	suite.decode(w, &all)
	suite.Len(all, len(domain.SupportedCurrencies()))
}

func (suite *HandlersTestSuite) TestRecordAndLookupRate() {
	w := suite.do(http.MethodPost, "/api/v1/rates", map[string]any{
		"baseCurrency":  "EUR",
		"quoteCurrency": "USD",
		"rate":          "1.0850",
		"rateDate":      "2024-03-01",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.ExchangeRateResponse
	suite.decode(w, &created)
	suite.NotEmpty(created.ExchangeRateID)
	suite.Equal("MANUAL", created.Source)

	// Saturday resolves to Friday's rate
	w = suite.do(http.MethodGet, "/api/v1/rates/eur/usd?date=2024-03-02", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var got dto.ExchangeRateResponse
	suite.decode(w, &got)
	suite.True(got.Rate.Equal(decimal.RequireFromString("1.085")))
	suite.Equal("2024-03-01", got.RateDate.String())
}

func (suite *HandlersTestSuite) TestRecordRate_Validation() {
	w := suite.do(http.MethodPost, "/api/v1/rates", map[string]any{
		"baseCurrency":  "EUR",
		"quoteCurrency": "EUR",
		"rate":          "1",
		"rateDate":      "2024-03-01",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/rates", map[string]any{
		"baseCurrency":  "EUR",
		"quoteCurrency": "ZZZ",
		"rate":          "1",
		"rateDate":      "2024-03-01",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestLookupRate_Unavailable() {
	w := suite.do(http.MethodGet, "/api/v1/rates/EUR/JPY?date=2024-03-01", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp handlers.ErrorResponse
	suite.decode(w, &resp)
	suite.Contains(resp.Error, "manual rate")

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/rates/EUR/JPY?date=03/01/2024", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/rates/EUR/JPY?source=RUMOUR", nil).Code)
}

func (suite *HandlersTestSuite) TestPrimeDailyRates() {
	w := suite.do(http.MethodPost, "/api/v1/rates/daily", map[string]any{
		"baseCurrency": "USD",
		"rateDate":     "2024-03-01",
		"rates":        map[string]string{"EUR": "0.92", "GBP": "0.79"},
		"source":       "CENTRAL_BANK",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.DailyRatesResponse
	suite.decode(w, &resp)
	suite.Equal(2, resp.Loaded)

	w = suite.do(http.MethodGet, "/api/v1/rates/USD/GBP?date=2024-03-01", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var got dto.ExchangeRateResponse
	suite.decode(w, &got)
	suite.Equal("CENTRAL_BANK", got.Source)
}

func (suite *HandlersTestSuite) TestListStoredRates() {
	w := suite.do(http.MethodPost, "/api/v1/rates/daily", map[string]any{
		"baseCurrency": "USD",
		"rateDate":     "2024-03-01",
		"rates":        map[string]string{"GBP": "0.79", "EUR": "0.92"},
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/rates/usd?date=2024-03-01", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.StoredRatesResponse
	suite.decode(w, &resp)
	suite.Equal("USD", resp.BaseCurrency)
	suite.Require().Len(resp.Rates, 2)
	suite.Equal("EUR", resp.Rates[0].QuoteCurrency)
	suite.Equal("GBP", resp.Rates[1].QuoteCurrency)

	w = suite.do(http.MethodGet, "/api/v1/rates/USD?date=2024-03-04", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.Empty(resp.Rates, "no fallback to earlier days")

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/rates/XYZ", nil).Code)
}

func (suite *HandlersTestSuite) TestConvert_RecordsAuditAndFormats() {
	suite.seedRate("EUR", "USD", "2024-03-01", "1.0850")
	suite.audit.On("SaveConversion", mock.Anything, mock.MatchedBy(func(c domain.FxConversion) bool {
		return c.OriginalCurrency == "EUR" && c.ConvertedCurrency == "USD"
	}), "ent-1").Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/conversions?locale=en-US", map[string]any{
		"amount":   "100",
		"from":     "EUR",
		"to":       "USD",
		"date":     "2024-03-01",
		"entityID": "ent-1",
	})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ConversionResponse
	suite.decode(w, &resp)
	suite.True(resp.ConvertedAmount.Equal(decimal.RequireFromString("108.50")))
	suite.Equal("$108.50", resp.Formatted)
	suite.NotEmpty(resp.ConversionID)
	suite.audit.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestConvert_Errors() {
	w := suite.do(http.MethodPost, "/api/v1/conversions", map[string]any{"amount": "1", "from": "EUR", "to": "XXX"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/conversions", map[string]any{"amount": "1", "from": "EUR", "to": "ISK", "date": "2024-03-01"})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	suite.seedRate("EUR", "USD", "2024-03-01", "1.0850")
	suite.audit.On("SaveConversion", mock.Anything, mock.Anything, "").
		Return(apperrors.NewAppError(http.StatusInternalServerError, "failed to save conversion", io.ErrUnexpectedEOF)).Once()
	w = suite.do(http.MethodPost, "/api/v1/conversions", map[string]any{"amount": "1", "from": "EUR", "to": "USD", "date": "2024-03-01"})
	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *HandlersTestSuite) TestGetConversion_NotFound() {
	suite.audit.On("FindConversionByID", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("conversion missing")).Once()

	w := suite.do(http.MethodGet, "/api/v1/conversions/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestListConversions() {
	next := "b3BhcXVl"
	suite.audit.On("ListConversionsByEntity", mock.Anything, "ent-1", 5, mock.MatchedBy(func(tok *string) bool {
		return tok == nil
	})).Return([]domain.FxConversion{{ConversionID: "c2"}, {ConversionID: "c1"}}, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/conversions?entityID=ent-1&limit=5", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListConversionsResponse
	suite.decode(w, &resp)
	suite.Len(resp.Conversions, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/conversions", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/conversions?entityID=ent-1&limit=500", nil).Code)
	suite.audit.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestFromFunctional_Mismatch() {
	w := suite.do(http.MethodPost, "/api/v1/conversions/from-functional", map[string]any{
		"amount": map[string]any{"amount": "10", "currency": "EUR"},
		"target": "GBP",
		"entity": map[string]any{"entityID": "ent-1", "functionalCurrency": "USD"},
		"date":   "2024-03-01",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "currency mismatch")
}

func (suite *HandlersTestSuite) TestRealizedGainLoss() {
	w := suite.do(http.MethodPost, "/api/v1/gain-loss/realized", map[string]any{
		"transaction": map[string]any{
			"foreignAmount":      "1000",
			"foreignCurrency":    "EUR",
			"functionalCurrency": "USD",
			"bookRate":           "1.10",
			"bookDate":           "2024-01-15",
		},
		"settlementRate": "1.105",
		"settlementDate": "2024-03-15",
		"direction":      "PAYABLE",
	})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var gl domain.FxGainLoss
	suite.decode(w, &gl)
	suite.True(gl.Amount.Equal(decimal.RequireFromString("-5")))
	suite.Equal(domain.Realized, gl.Type)
}

func (suite *HandlersTestSuite) TestRevaluations_MixedBatch() {
	w := suite.do(http.MethodPost, "/api/v1/revaluations", map[string]any{
		"positions": []map[string]any{
			{"foreignAmount": "100", "foreignCurrency": "EUR", "functionalCurrency": "USD", "bookRate": "1.1"},
			{"foreignAmount": "100", "foreignCurrency": "GBP", "functionalCurrency": "EUR", "bookRate": "1.2"},
		},
		"rates":           map[string]string{"EUR": "1.2", "GBP": "1.1"},
		"revaluationDate": "2024-03-31",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "inconsistent batch")
}

func (suite *HandlersTestSuite) TestLedgerViews() {
	entries := []map[string]any{
		{
			"entryID":     "e1",
			"accountCode": "1200",
			"date":        "2024-03-01",
			"debit": map[string]any{
				"original":     map[string]any{"amount": "1000", "currency": "EUR"},
				"functional":   map[string]any{"amount": "1100", "currency": "USD"},
				"exchangeRate": "1.10",
				"rateDate":     "2024-03-01",
				"rateSource":   "MANUAL",
			},
		},
	}

	w := suite.do(http.MethodPost, "/api/v1/ledger/exposure", map[string]any{"functionalCurrency": "USD", "entries": entries})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var exposures []domain.CurrencyExposure
	suite.decode(w, &exposures)
	suite.Require().Len(exposures, 1)
	suite.Equal(domain.CurrencyCode("EUR"), exposures[0].Currency)

	w = suite.do(http.MethodPost, "/api/v1/ledger/exposure", map[string]any{"functionalCurrency": "GBP", "entries": entries})
	suite.Equal(http.StatusBadRequest, w.Code, "legs converted to USD cannot be netted in GBP")
	suite.Contains(w.Body.String(), "currency mismatch")

	w = suite.do(http.MethodPost, "/api/v1/ledger/trial-balance", map[string]any{"entries": entries})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var lines []domain.TrialBalanceLine
	suite.decode(w, &lines)
	suite.Require().Len(lines, 1)
	suite.Equal("1200", lines[0].AccountCode)
}

func (suite *HandlersTestSuite) TestLedgerAggregate_SuppliedRates() {
	w := suite.do(http.MethodPost, "/api/v1/ledger/aggregate", map[string]any{
		"amounts": []map[string]any{
			{"amount": "100", "currency": "EUR"},
			{"amount": "10", "currency": "USD"},
		},
		"entity": map[string]any{"functionalCurrency": "USD"},
		"rates":  map[string]string{"EUR": "1.10"},
		"date":   "2024-03-01",
	})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var agg domain.FunctionalAggregate
	suite.decode(w, &agg)
	suite.True(agg.Total.Amount.Equal(decimal.RequireFromString("120")))

	w = suite.do(http.MethodPost, "/api/v1/ledger/aggregate", map[string]any{
		"amounts": []map[string]any{{"amount": "1", "currency": "CHF"}},
		"entity":  map[string]any{"functionalCurrency": "USD"},
		"rates":   map[string]string{"EUR": "1.10"},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "missing rate")
}
