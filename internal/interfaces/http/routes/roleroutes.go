package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/interfaces/http/handlers"
	"github.com/tillgate/tillgate/internal/shared/constants"
)

// RoleRouteConfig holds dependencies for role management routes.
type RoleRouteConfig struct {
	Admin       *AdminRouteConfig
	RoleHandler *handlers.RoleHandler
}

// SetupRoleRoutes configures role management. Creating and changing roles
// additionally requires the configured admin role level.
func SetupRoleRoutes(engine *gin.Engine, cfg *RoleRouteConfig) {
	pm := cfg.Admin.PermissionMiddleware
	h := cfg.RoleHandler
	limit := cfg.Admin.MutationLimit

	canView := pm.RequirePermission(constants.ResourceUsers, constants.ActionView)
	canManage := pm.RequirePermission(constants.ResourceUsers, constants.ActionPermissions)
	adminLevel := pm.RequireRoleLevel(cfg.Admin.RoleAdminLevel)

	roles := cfg.Admin.group(engine, "/roles")
	{
		roles.GET("", canView, h.ListRoles)
		roles.POST("", limit, canManage, adminLevel, h.CreateRole)

		roles.GET("/:id", canView, h.GetRole)
		roles.PATCH("/:id", limit, canManage, adminLevel, h.UpdateRole)
		roles.DELETE("/:id", limit, canManage, adminLevel, h.DeactivateRole)
		roles.POST("/:id/activate", limit, canManage, adminLevel, h.ActivateRole)

		roles.GET("/:id/permissions", canView, h.ListRolePermissions)
		roles.POST("/:id/permissions/:permissionId", limit, canManage, h.GrantRolePermission)
		roles.DELETE("/:id/permissions/:permissionId", limit, canManage, h.RevokeRolePermission)
	}
}
