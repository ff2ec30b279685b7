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

type gainLossHandler struct {
	gainLossService portssvc.GainLossSvc
}

func newGainLossHandler(gls portssvc.GainLossSvc) *gainLossHandler {
	return &gainLossHandler{
		gainLossService: gls,
	}
}

// registerGainLossRoutes registers realized, unrealized and batch revaluation routes.
func registerGainLossRoutes(rg *gin.RouterGroup, gainLossService portssvc.GainLossSvc) {
	h := newGainLossHandler(gainLossService)

	gainLoss := rg.Group("/gain-loss")
	{
		gainLoss.POST("/realized", h.realized)
		gainLoss.POST("/unrealized", h.unrealized)
	}
	rg.POST("/revaluations", h.revalue)
}

// realized godoc
// @Summary Calculate realized FX gain or loss
// @Description Compares a settlement against the booked rate. Payables invert the sign; the personal exemption applies only when requested.
// @Tags gain-loss
// @Accept  json
// @Produce  json
// @Param   request body dto.RealizedGainLossRequest true "Transaction and settlement"
// @Success 200 {object} domain.FxGainLoss
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Router /gain-loss/realized [post]
func (h *gainLossHandler) realized(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RealizedGainLossRequest
	if !bindJSON(c, logger, &req, "RealizedGainLoss") {
		return
	}

	txn, settlement, opts := req.ToDomain()
	logger = logger.With(slog.String("reference_id", txn.ReferenceID))
	result, err := h.gainLossService.CalculateRealizedGainLoss(c.Request.Context(), txn, settlement, opts)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate realized gain/loss")
		return
	}
	c.JSON(http.StatusOK, result)
}

// unrealized godoc
// @Summary Calculate unrealized FX gain or loss
// @Description Revalues one open position at the current rate
// @Tags gain-loss
// @Accept  json
// @Produce  json
// @Param   request body dto.UnrealizedGainLossRequest true "Position and current rate"
// @Success 200 {object} domain.FxGainLoss
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Router /gain-loss/unrealized [post]
func (h *gainLossHandler) unrealized(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UnrealizedGainLossRequest
	if !bindJSON(c, logger, &req, "UnrealizedGainLoss") {
		return
	}

	if req.RevaluationDate.IsZero() {
		req.RevaluationDate = domain.Today()
	}
	logger = logger.With(slog.String("reference_id", req.Position.ReferenceID))
	result, err := h.gainLossService.CalculateUnrealizedGainLoss(c.Request.Context(), req.Position.ToDomain(), req.CurrentRate, req.RevaluationDate)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate unrealized gain/loss")
		return
	}
	c.JSON(http.StatusOK, result)
}

// revalue godoc
// @Summary Revalue a batch of open positions
// @Description Revalues positions sharing one functional currency and totals gains and losses. Nothing is computed if any position is invalid.
// @Tags gain-loss
// @Accept  json
// @Produce  json
// @Param   request body dto.RevaluationRequest true "Positions and current rates"
// @Success 200 {object} domain.RevaluationResult
// @Failure 400 {object} ErrorResponse "Invalid, mixed or incomplete batch"
// @Router /revaluations [post]
func (h *gainLossHandler) revalue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RevaluationRequest
	if !bindJSON(c, logger, &req, "Revaluation") {
		return
	}

	if req.RevaluationDate.IsZero() {
		req.RevaluationDate = domain.Today()
	}
	result, err := h.gainLossService.RevaluePositions(c.Request.Context(), req.PositionsToDomain(), req.Rates, req.RevaluationDate)
	if err != nil {
		respondWithError(c, logger, err, "Failed to revalue positions")
		return
	}
	c.JSON(http.StatusOK, result)
}
