package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/interfaces/http/handlers"
	"github.com/tillgate/tillgate/internal/shared/constants"
)

// UserRouteConfig holds dependencies for user access routes.
type UserRouteConfig struct {
	Admin       *AdminRouteConfig
	UserHandler *handlers.UserHandler
}

// SetupUserRoutes configures role assignment and account status.
func SetupUserRoutes(engine *gin.Engine, cfg *UserRouteConfig) {
	pm := cfg.Admin.PermissionMiddleware
	h := cfg.UserHandler
	limit := cfg.Admin.MutationLimit

	canManage := pm.RequirePermission(constants.ResourceUsers, constants.ActionPermissions)

	users := cfg.Admin.group(engine, "/users")
	{
		users.POST("/:id/roles/:roleId", limit, canManage, h.AssignRole)
		users.DELETE("/:id/roles/:roleId", limit, canManage, h.RevokeRole)
		users.PATCH("/:id/status", limit, pm.RequirePermission(constants.ResourceUsers, constants.ActionUpdate), h.SetStatus)
	}
}
