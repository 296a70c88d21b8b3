package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tillgate/tillgate/internal/interfaces/http/handlers"
	"github.com/tillgate/tillgate/internal/shared/constants"
)

// AuditRouteConfig holds dependencies for the audit log route.
type AuditRouteConfig struct {
	Admin        *AdminRouteConfig
	AuditHandler *handlers.AuditHandler
}

// SetupAuditRoutes configures the audit log listing.
func SetupAuditRoutes(engine *gin.Engine, cfg *AuditRouteConfig) {
	pm := cfg.Admin.PermissionMiddleware

	logs := cfg.Admin.group(engine, "/audit-logs")
	{
		logs.GET("", pm.RequirePermission(constants.ResourceSystem, constants.ActionAudit), cfg.AuditHandler.ListAuditLogs)
	}
}

// SystemRouteConfig holds dependencies for the unauthenticated operational routes.
type SystemRouteConfig struct {
	HealthHandler *handlers.HealthHandler
	// MetricsHandler is nil when metrics are disabled.
	MetricsHandler http.Handler
	MetricsPath    string
	EnableSwagger  bool
}

// SetupSystemRoutes configures health, metrics and API documentation.
func SetupSystemRoutes(engine *gin.Engine, cfg *SystemRouteConfig) {
	engine.GET("/health", cfg.HealthHandler.HealthCheck)

	if cfg.MetricsHandler != nil {
		engine.GET(cfg.MetricsPath, gin.WrapH(cfg.MetricsHandler))
	}

	if cfg.EnableSwagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
