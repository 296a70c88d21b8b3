package http

import (
	"github.com/tillgate/tillgate/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	authHandler       *handlers.AuthHandler
	permissionHandler *handlers.PermissionHandler
	roleHandler       *handlers.RoleHandler
	userHandler       *handlers.UserHandler
	auditHandler      *handlers.AuditHandler
	healthHandler     *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	log := c.log

	var pinger handlers.Pinger
	if sqlDB, err := c.db.DB(); err != nil {
		log.Warnw("health check will not ping the database", "error", err)
	} else {
		pinger = sqlDB
	}

	c.hdlrs = &allHandlers{
		authHandler:       handlers.NewAuthHandler(c.loginSvc, c.authz, log),
		permissionHandler: handlers.NewPermissionHandler(c.permissionSvc, c.authz, log),
		roleHandler:       handlers.NewRoleHandler(c.permissionSvc, log),
		userHandler:       handlers.NewUserHandler(c.permissionSvc, log),
		auditHandler:      handlers.NewAuditHandler(c.auditSvc, log),
		healthHandler:     handlers.NewHealthHandler(pinger, log),
	}
}
