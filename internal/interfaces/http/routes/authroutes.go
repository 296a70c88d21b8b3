package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/interfaces/http/handlers"
	"github.com/tillgate/tillgate/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	LoginLimit     gin.HandlerFunc
}

// SetupAuthRoutes configures login and the caller's own permission listing.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.POST("/login", cfg.LoginLimit, cfg.AuthHandler.Login)
	}

	me := engine.Group("/me")
	me.Use(cfg.AuthMiddleware.RequireAuth())
	{
		me.GET("/permissions", cfg.AuthHandler.MyPermissions)
	}
}
