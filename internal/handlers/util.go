package handlers

import (
	"log/slog"
	"net/http"
	"reflect"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerValidators adds the "currency" tag, which accepts only codes from
// the built-in registry.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return domain.IsSupportedCurrency(domain.CurrencyCode(fl.Field().String()))
	})
}

// bindJSON binds the request body into req and answers 400 on failure.
func bindJSON(c *gin.Context, logger *slog.Logger, req any, operation string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON for "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

// respondWithError maps err to a status. Client errors echo the message;
// server errors log it and answer with fallback.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: fallback})
		return
	}
	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// queryDate parses an optional YYYY-MM-DD query parameter. A missing value is
// the zero date.
func queryDate(c *gin.Context, name string) (domain.Date, error) {
	raw := c.Query(name)
	if raw == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, apperrors.NewValidationError("invalid " + name + " " + raw + ", want YYYY-MM-DD")
	}
	return d, nil
}
