package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	portssvc "github.com/SscSPs/fx_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_engine/internal/dto"
	"github.com/SscSPs/fx_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	rates := rg.Group("/rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.POST("/daily", h.recordDailyRates)
		rates.GET("/:base", h.listStoredRates)
		rates.GET("/:base/:quote", h.getExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Record a manual exchange rate
// @Description Stores a caller-supplied rate for a pair and date and makes it available to lookups
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 500 {object} ErrorResponse "Failed to record exchange rate"
// @Router /rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if !bindJSON(c, logger, &req, "CreateExchangeRate") {
		return
	}

	logger = logger.With(
		slog.String("base", string(req.BaseCurrency)),
		slog.String("quote", string(req.QuoteCurrency)),
		slog.String("rate_date", req.RateDate.String()),
	)
	rate, err := h.exchangeRateService.RecordManualRate(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondWithError(c, logger, err, "Failed to record exchange rate")
		return
	}

	logger.Info("Exchange rate recorded", slog.String("exchange_rate_id", rate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// recordDailyRates godoc
// @Summary Record a day's rates
// @Description Stores one base currency's rates for a date in a single batch and makes them available to lookups
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rates body dto.DailyRatesRequest true "Daily rates"
// @Success 200 {object} dto.DailyRatesResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 500 {object} ErrorResponse "Failed to record daily rates"
// @Router /rates/daily [post]
func (h *exchangeRateHandler) recordDailyRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DailyRatesRequest
	if !bindJSON(c, logger, &req, "RecordDailyRates") {
		return
	}

	logger = logger.With(
		slog.String("base", string(req.BaseCurrency)),
		slog.String("rate_date", req.RateDate.String()),
	)
	loaded, err := h.exchangeRateService.RecordDailyRates(c.Request.Context(), req.BaseCurrency, req.RateDate, req.Rates, req.Source)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record daily rates")
		return
	}

	logger.Info("Daily rates recorded", slog.Int("loaded", loaded))
	c.JSON(http.StatusOK, dto.DailyRatesResponse{Loaded: loaded})
}

// getExchangeRate godoc
// @Summary Get an exchange rate
// @Description Resolves the rate for a pair on a date, falling back to the previous business day with a published rate
// @Tags exchange rates
// @Produce  json
// @Param   base path string true "Base Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   quote path string true "Quote Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   date query string false "Rate date (YYYY-MM-DD), defaults to today"
// @Param   source query string false "Preferred rate source" Enums(CENTRAL_BANK, MANUAL, DATABASE)
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid currency or date"
// @Failure 422 {object} ErrorResponse "No rate available"
// @Failure 500 {object} ErrorResponse "Failed to retrieve exchange rate"
// @Router /rates/{base}/{quote} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := domain.CurrencyCode(strings.ToUpper(c.Param("base")))
	quote := domain.CurrencyCode(strings.ToUpper(c.Param("quote")))
	logger = logger.With(slog.String("base", string(base)), slog.String("quote", string(quote)))

	date, err := queryDate(c, "date")
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}
	opts := providers.LookupOptions{Source: domain.RateSource(strings.ToUpper(c.Query("source")))}
	if opts.Source != "" && !opts.Source.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown rate source " + string(opts.Source)})
		return
	}

	rate, ok, err := h.exchangeRateService.GetRate(c.Request.Context(), base, quote, date, opts)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}
	if !ok {
		if date.IsZero() {
			date = domain.Today()
		}
		respondWithError(c, logger, &apperrors.RateUnavailableError{Base: string(base), Quote: string(quote), Date: date.String()}, "Failed to retrieve exchange rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(&rate))
}

// listStoredRates godoc
// @Summary List a day's stored rates
// @Description Lists the rates recorded against a base currency on exactly one date, without business-day fallback
// @Tags exchange rates
// @Produce  json
// @Param   base path string true "Base Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   date query string false "Rate date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.StoredRatesResponse
// @Failure 400 {object} ErrorResponse "Invalid currency or date"
// @Failure 500 {object} ErrorResponse "Failed to list exchange rates"
// @Router /rates/{base} [get]
func (h *exchangeRateHandler) listStoredRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := domain.CurrencyCode(strings.ToUpper(c.Param("base")))
	logger = logger.With(slog.String("base", string(base)))

	date, err := queryDate(c, "date")
	if err != nil {
		respondWithError(c, logger, err, "Failed to list exchange rates")
		return
	}
	if date.IsZero() {
		date = domain.Today()
	}

	rates, err := h.exchangeRateService.ListRatesForDate(c.Request.Context(), base, date)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list exchange rates")
		return
	}

	c.JSON(http.StatusOK, dto.ToStoredRatesResponse(base, date, rates))
}
