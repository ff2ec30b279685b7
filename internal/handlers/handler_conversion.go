package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/SscSPs/fx_engine/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/fx_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_engine/internal/core/services"
	"github.com/SscSPs/fx_engine/internal/dto"
	"github.com/SscSPs/fx_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// conversionHandler handles HTTP requests related to currency conversion.
type conversionHandler struct {
	conversionService portssvc.ConversionSvc
	audit             portsrepo.ConversionAuditRepositoryFacade
}

// newConversionHandler creates a new conversionHandler. audit may be nil.
func newConversionHandler(cs portssvc.ConversionSvc, audit portsrepo.ConversionAuditRepositoryFacade) *conversionHandler {
	return &conversionHandler{
		conversionService: cs,
		audit:             audit,
	}
}

// registerConversionRoutes registers routes related to conversions.
func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvc, audit portsrepo.ConversionAuditRepositoryFacade) {
	h := newConversionHandler(conversionService, audit)

	conversions := rg.Group("/conversions")
	{
		conversions.POST("", h.convert)
		conversions.POST("/to-functional", h.toFunctional)
		conversions.POST("/from-functional", h.fromFunctional)
		if audit != nil {
			conversions.GET("", h.listConversions)
			conversions.GET("/:conversionID", h.getConversion)
		}
	}
}

// convert godoc
// @Summary Convert an amount
// @Description Converts an amount between two currencies, rounded to the target currency's minor unit. The response is a self-contained audit record.
// @Tags conversions
// @Accept  json
// @Produce  json
// @Param   request body dto.ConvertRequest true "Conversion request"
// @Param   locale query string false "Locale for the formatted field, e.g. en-US"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 422 {object} ErrorResponse "No rate available"
// @Failure 500 {object} ErrorResponse "Failed to convert amount"
// @Router /conversions [post]
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if !bindJSON(c, logger, &req, "Convert") {
		return
	}

	logger = logger.With(slog.String("from", string(req.From)), slog.String("to", string(req.To)))
	conversion, err := h.conversionService.ConvertCurrency(c.Request.Context(), req.ToDomain(), portssvc.ConvertOptions{
		Rate:   req.PinnedRate(),
		Lookup: providers.LookupOptions{Source: req.RateSource},
	})
	if err != nil {
		respondWithError(c, logger, err, "Failed to convert amount")
		return
	}

	if h.audit != nil {
		if err := h.audit.SaveConversion(c.Request.Context(), *conversion, req.EntityID); err != nil {
			respondWithError(c, logger, err, "Failed to record conversion")
			return
		}
	}

	logger.Info("Amount converted",
		slog.String("conversion_id", conversion.ConversionID),
		slog.String("rate", conversion.ExchangeRate.String()),
		slog.String("rate_source", string(conversion.RateSource)))

	resp := dto.ConversionResponse{FxConversion: *conversion}
	if locale, ok := c.GetQuery("locale"); ok {
		resp.Formatted = services.FormatMoney(domain.NewMonetaryAmount(conversion.ConvertedAmount, conversion.ConvertedCurrency), locale)
	}
	c.JSON(http.StatusOK, resp)
}

// getConversion godoc
// @Summary Get a recorded conversion
// @Description Reads back a conversion from the audit store
// @Tags conversions
// @Produce  json
// @Param   conversionID path string true "Conversion ID"
// @Success 200 {object} domain.FxConversion
// @Failure 404 {object} ErrorResponse "Conversion not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve conversion"
// @Router /conversions/{conversionID} [get]
func (h *conversionHandler) getConversion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	conversionID := c.Param("conversionID")
	logger = logger.With(slog.String("conversion_id", conversionID))

	conversion, err := h.audit.FindConversionByID(c.Request.Context(), conversionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve conversion")
		return
	}
	c.JSON(http.StatusOK, conversion)
}

// listConversions godoc
// @Summary List recorded conversions
// @Description Pages through an entity's recorded conversions, newest first
// @Tags conversions
// @Produce  json
// @Param   entityID query string true "Entity ID"
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListConversionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query or token"
// @Failure 500 {object} ErrorResponse "Failed to list conversions"
// @Router /conversions [get]
func (h *conversionHandler) listConversions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListConversionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListConversions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("entity_id", params.EntityID))
	conversions, nextToken, err := h.audit.ListConversionsByEntity(c.Request.Context(), params.EntityID, params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list conversions")
		return
	}

	logger.Debug("Conversions listed", slog.Int("count", len(conversions)))
	c.JSON(http.StatusOK, dto.ListConversionsResponse{Conversions: conversions, NextToken: nextToken})
}

// toFunctional godoc
// @Summary Express an amount in the functional currency
// @Description Pairs an amount with its equivalent in the entity's functional currency
// @Tags conversions
// @Accept  json
// @Produce  json
// @Param   request body dto.ToFunctionalRequest true "Amount and entity policy"
// @Param   locale query string false "Locale for the formatted field, e.g. en-US"
// @Success 200 {object} dto.DualAmountResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 422 {object} ErrorResponse "No rate available"
// @Router /conversions/to-functional [post]
func (h *conversionHandler) toFunctional(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ToFunctionalRequest
	if !bindJSON(c, logger, &req, "ToFunctional") {
		return
	}

	logger = logger.With(slog.String("entity_id", req.Entity.EntityID))
	dual, err := h.conversionService.ConvertToFunctional(c.Request.Context(), req.Amount.ToDomain(), req.Entity.ToDomain(), req.Date)
	if err != nil {
		respondWithError(c, logger, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, dualResponse(c, dual))
}

// fromFunctional godoc
// @Summary Express a functional amount in another currency
// @Description Converts an amount in the entity's functional currency into a target currency
// @Tags conversions
// @Accept  json
// @Produce  json
// @Param   request body dto.FromFunctionalRequest true "Amount, target and entity policy"
// @Param   locale query string false "Locale for the formatted field, e.g. en-US"
// @Success 200 {object} dto.DualAmountResponse
// @Failure 400 {object} ErrorResponse "Invalid input, or the amount is not in the functional currency"
// @Failure 422 {object} ErrorResponse "No rate available"
// @Router /conversions/from-functional [post]
func (h *conversionHandler) fromFunctional(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FromFunctionalRequest
	if !bindJSON(c, logger, &req, "FromFunctional") {
		return
	}

	logger = logger.With(slog.String("entity_id", req.Entity.EntityID))
	dual, err := h.conversionService.ConvertFromFunctional(c.Request.Context(), req.Amount.ToDomain(), req.Target, req.Entity.ToDomain(), req.Date)
	if err != nil {
		respondWithError(c, logger, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, dualResponse(c, dual))
}

func dualResponse(c *gin.Context, dual *domain.DualCurrencyAmount) dto.DualAmountResponse {
	resp := dto.DualAmountResponse{DualCurrencyAmount: *dual}
	if locale, ok := c.GetQuery("locale"); ok {
		resp.Formatted = services.FormatDualCurrency(*dual, locale)
	}
	return resp
}
