// Package http assembles the administration API: it wires services and
// middlewares into a gin engine and mounts the routes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/infrastructure/ratelimit"
	"github.com/tillgate/tillgate/internal/interfaces/http/middleware"
	"github.com/tillgate/tillgate/internal/interfaces/http/routes"
	"github.com/tillgate/tillgate/internal/shared/errors"
	"github.com/tillgate/tillgate/internal/shared/utils"

	_ "github.com/tillgate/tillgate/docs"
)

// Rate limit rule names, also used as the metric label.
const (
	RateLimitLogin    = "login"
	RateLimitMutation = "mutation"
)

// SetupRoutes installs the global middleware chain and every route group.
func (c *Container) SetupRoutes() {
	cfg := c.cfg
	log := c.log

	c.engine.Use(middleware.RequestContext())
	c.engine.Use(middleware.Recovery(log))
	c.engine.Use(middleware.Logger(log))
	if cfg.Metrics.Enabled {
		c.engine.Use(middleware.Metrics(c.metrics))
	}
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.ErrorHandler(log))

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = c.metrics.Handler()
	}
	routes.SetupSystemRoutes(c.engine, &routes.SystemRouteConfig{
		HealthHandler:  c.hdlrs.healthHandler,
		MetricsHandler: metricsHandler,
		MetricsPath:    cfg.Metrics.Path,
		EnableSwagger:  cfg.Server.Mode != gin.ReleaseMode,
	})

	routes.SetupAuthRoutes(c.engine, &routes.AuthRouteConfig{
		AuthHandler:    c.hdlrs.authHandler,
		AuthMiddleware: c.authMiddleware,
		LoginLimit: c.rateLimiter.Limit(RateLimitLogin,
			ratelimit.PerMinute(cfg.RateLimit.LoginPerMinute), middleware.ByClientIP),
	})

	admin := &routes.AdminRouteConfig{
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		MutationAudit:        middleware.MutationAudit(c.auditSvc, cfg.Authz.AuditBodyLimit, log),
		MutationLimit: c.rateLimiter.Limit(RateLimitMutation,
			ratelimit.PerMinute(cfg.RateLimit.MutationPerMinute), middleware.ByUser),
		RoleAdminLevel: cfg.Authz.RoleAdminLevel,
	}

	routes.SetupPermissionRoutes(c.engine, &routes.PermissionRouteConfig{
		Admin:             admin,
		PermissionHandler: c.hdlrs.permissionHandler,
	})
	routes.SetupRoleRoutes(c.engine, &routes.RoleRouteConfig{
		Admin:       admin,
		RoleHandler: c.hdlrs.roleHandler,
	})
	routes.SetupUserRoutes(c.engine, &routes.UserRouteConfig{
		Admin:       admin,
		UserHandler: c.hdlrs.userHandler,
	})
	routes.SetupAuditRoutes(c.engine, &routes.AuditRouteConfig{
		Admin:        admin,
		AuditHandler: c.hdlrs.auditHandler,
	})

	c.engine.NoRoute(func(ctx *gin.Context) {
		utils.ErrorResponseWithError(ctx, errors.NewNotFoundError("Route not found"))
	})

	log.Infow("routes configured",
		"role_admin_level", cfg.Authz.RoleAdminLevel,
		"metrics", cfg.Metrics.Enabled,
		"mode", cfg.Server.Mode)
}
