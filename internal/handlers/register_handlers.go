package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/expensehq/expense_mgmt_app/cmd/docs"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
	"github.com/expensehq/expense_mgmt_app/internal/platform/config"
)

// ErrorResponse is the generic error body returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, services)
	registerGoogleOAuthRoutes(r, cfg, services)

	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to per-entity registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerCategoryRoutes(v1, services.Category)
	registerCurrencyRoutes(v1, services.Currency, services.Conversion)
	RegisterExpenseRoutes(v1, services.Expense)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// requesterFromContext rebuilds the caller's identity from the JWT claims the
// auth middleware stored on the request. Chain resolution and visibility
// checks always re-read persisted state, so the claim triple is sufficient.
func requesterFromContext(c *gin.Context) (*domain.User, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return nil, false
	}
	roleStr, ok := middleware.GetUserRoleFromContext(c)
	if !ok {
		return nil, false
	}
	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return nil, false
	}
	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		return nil, false
	}
	return &domain.User{UserID: userID, Role: role, CompanyID: companyID, IsActive: true}, true
}
