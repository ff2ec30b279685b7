package handlers

import (
	"net/http"

	"github.com/SscSPs/fx_engine/cmd/docs"
	portsrepo "github.com/SscSPs/fx_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_engine/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// repos may be empty, in which case conversions are not audited. apiMiddleware
// runs on every /api/v1 route.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos portsrepo.RepositoryProvider,
	apiMiddleware ...gin.HandlerFunc,
) {
	registerValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, services, repos, apiMiddleware)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	service *portssvc.ServiceContainer,
	repos portsrepo.RepositoryProvider,
	apiMiddleware []gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", apiMiddleware...)

	registerCurrencyRoutes(v1, service.Currency)
	registerExchangeRateRoutes(v1, service.ExchangeRate)
	registerConversionRoutes(v1, service.Conversion, repos.ConversionAuditRepo)
	registerGainLossRoutes(v1, service.GainLoss)
	registerLedgerRoutes(v1, service.MultiCurrency)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
