package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	portssvc "github.com/SscSPs/fx_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_engine/internal/dto"
	"github.com/SscSPs/fx_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	multiCurrencyService portssvc.MultiCurrencySvc
}

func newLedgerHandler(mcs portssvc.MultiCurrencySvc) *ledgerHandler {
	return &ledgerHandler{multiCurrencyService: mcs}
}

// registerLedgerRoutes registers the multi-currency ledger views.
func registerLedgerRoutes(rg *gin.RouterGroup, multiCurrencyService portssvc.MultiCurrencySvc) {
	h := newLedgerHandler(multiCurrencyService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/dual-amounts", h.dualAmount)
		ledger.POST("/aggregate", h.aggregate)
		ledger.POST("/exposure", h.exposure)
		ledger.POST("/trial-balance", h.trialBalance)
	}
}

// dualAmount godoc
// @Summary Build a dual-currency amount
// @Description Pairs an amount with its functional equivalent, at a supplied rate or a looked-up one
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   request body dto.DualAmountRequest true "Amount, entity policy and optional rate"
// @Param   locale query string false "Locale for the formatted field, e.g. en-US"
// @Success 200 {object} dto.DualAmountResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 422 {object} ErrorResponse "No rate available"
// @Router /ledger/dual-amounts [post]
func (h *ledgerHandler) dualAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DualAmountRequest
	if !bindJSON(c, logger, &req, "DualAmount") {
		return
	}

	var (
		dual *domain.DualCurrencyAmount
		err  error
	)
	config := req.Entity.ToDomain()
	if req.Rate != nil {
		if !config.Allows(req.Amount.Currency) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "currency " + string(req.Amount.Currency) + " is not allowed for this entity"})
			return
		}
		dual, err = h.multiCurrencyService.CreateDualAmountFromRate(req.Amount.ToDomain(), config.FunctionalCurrency, *req.Rate, req.Date, req.RateSource)
	} else {
		dual, err = h.multiCurrencyService.CreateDualAmount(c.Request.Context(), req.Amount.ToDomain(), config, req.Date)
	}
	if err != nil {
		respondWithError(c, logger.With(slog.String("entity_id", config.EntityID)), err, "Failed to build dual-currency amount")
		return
	}
	c.JSON(http.StatusOK, dualResponse(c, dual))
}

// aggregate godoc
// @Summary Sum amounts in the functional currency
// @Description Converts each amount to the entity's functional currency and sums them. With rates supplied no lookup happens and a missing currency is an error.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   request body dto.AggregateRequest true "Amounts, entity policy and optional rates"
// @Success 200 {object} domain.FunctionalAggregate
// @Failure 400 {object} ErrorResponse "Invalid input or missing rate"
// @Failure 422 {object} ErrorResponse "No rate available"
// @Router /ledger/aggregate [post]
func (h *ledgerHandler) aggregate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AggregateRequest
	if !bindJSON(c, logger, &req, "Aggregate") {
		return
	}

	var (
		agg *domain.FunctionalAggregate
		err error
	)
	config := req.Entity.ToDomain()
	if req.Rates != nil {
		agg, err = h.multiCurrencyService.AggregateToFunctionalSync(c.Request.Context(), req.AmountsToDomain(), config, req.Rates, req.Date)
	} else {
		agg, err = h.multiCurrencyService.AggregateToFunctional(c.Request.Context(), req.AmountsToDomain(), config, req.Date)
	}
	if err != nil {
		respondWithError(c, logger.With(slog.String("entity_id", config.EntityID)), err, "Failed to aggregate amounts")
		return
	}
	c.JSON(http.StatusOK, agg)
}

// exposure godoc
// @Summary Net foreign-currency exposure
// @Description Nets debit and credit legs per foreign currency, largest functional exposure first
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   request body dto.ExposureRequest true "Ledger entries"
// @Success 200 {array} domain.CurrencyExposure
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Router /ledger/exposure [post]
func (h *ledgerHandler) exposure(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExposureRequest
	if !bindJSON(c, logger, &req, "Exposure") {
		return
	}
	exposures, err := h.multiCurrencyService.CalculateExposure(req.Entries, req.FunctionalCurrency)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate exposure")
		return
	}
	c.JSON(http.StatusOK, exposures)
}

// trialBalance godoc
// @Summary Multi-currency trial balance
// @Description Sums entries per account and currency in both currencies, with the latest rate seen
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   request body dto.TrialBalanceRequest true "Ledger entries"
// @Success 200 {array} domain.TrialBalanceLine
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Router /ledger/trial-balance [post]
func (h *ledgerHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TrialBalanceRequest
	if !bindJSON(c, logger, &req, "TrialBalance") {
		return
	}
	c.JSON(http.StatusOK, h.multiCurrencyService.MultiCurrencyTrialBalance(req.Entries))
}
