package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/interfaces/http/handlers"
	"github.com/tillgate/tillgate/internal/interfaces/http/middleware"
	"github.com/tillgate/tillgate/internal/shared/constants"
)

// AdminRouteConfig holds the middleware shared by every administration route.
type AdminRouteConfig struct {
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	// MutationAudit records every state-changing request; it must run
	// before the guards so it can see whether a denial was already audited.
	MutationAudit gin.HandlerFunc
	MutationLimit gin.HandlerFunc
	// RoleAdminLevel is the minimum role level for changing roles.
	RoleAdminLevel int
}

// group opens an authenticated, audited route group.
func (cfg *AdminRouteConfig) group(engine *gin.Engine, path string) *gin.RouterGroup {
	g := engine.Group(path)
	g.Use(cfg.AuthMiddleware.RequireAuth(), cfg.MutationAudit)
	return g
}

// PermissionRouteConfig holds dependencies for permission catalog and
// direct grant routes.
type PermissionRouteConfig struct {
	Admin             *AdminRouteConfig
	PermissionHandler *handlers.PermissionHandler
}

// SetupPermissionRoutes configures the permission catalog, direct grant and
// check routes.
func SetupPermissionRoutes(engine *gin.Engine, cfg *PermissionRouteConfig) {
	pm := cfg.Admin.PermissionMiddleware
	h := cfg.PermissionHandler
	limit := cfg.Admin.MutationLimit

	canManage := pm.RequirePermission(constants.ResourceUsers, constants.ActionPermissions)
	canView := pm.RequirePermission(constants.ResourceUsers, constants.ActionView)
	canConfigure := pm.RequirePermission(constants.ResourceSystem, constants.ActionSettings)

	permissions := cfg.Admin.group(engine, "/permissions")
	{
		permissions.GET("", canManage, h.ListPermissions)
		permissions.POST("", limit, canConfigure, h.CreatePermission)

		// Specific named endpoints (must come BEFORE /:id to avoid conflicts)
		permissions.GET("/check", canView, h.CheckPermission)
		permissions.GET("/user/:userId", canView, h.GetUserPermissions)
		permissions.POST("/grant", limit, canManage, h.GrantUserPermission)
		permissions.POST("/revoke", limit, canManage, h.RevokeUserPermission)

		permissions.DELETE("/:id", limit, canConfigure, h.DeactivatePermission)
	}
}
