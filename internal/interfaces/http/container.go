package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appAudit "github.com/tillgate/tillgate/internal/application/audit"
	appAuth "github.com/tillgate/tillgate/internal/application/auth"
	"github.com/tillgate/tillgate/internal/application/authorization"
	appPermission "github.com/tillgate/tillgate/internal/application/permission"
	"github.com/tillgate/tillgate/internal/infrastructure/auth"
	"github.com/tillgate/tillgate/internal/infrastructure/config"
	"github.com/tillgate/tillgate/internal/infrastructure/metrics"
	"github.com/tillgate/tillgate/internal/infrastructure/ratelimit"
	"github.com/tillgate/tillgate/internal/infrastructure/repository"
	"github.com/tillgate/tillgate/internal/interfaces/http/middleware"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

// Container holds the infrastructure components, services, handlers and
// middlewares of the HTTP API, and releases them on Shutdown.
type Container struct {
	// Core infrastructure
	engine  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	log     logger.Interface
	redis   *redis.Client
	metrics *metrics.Metrics

	// Repositories
	repos *repository.Set

	// Services
	jwtSvc        *auth.JWTService
	authz         *authorization.Engine
	auditSvc      *appAudit.Service
	permissionSvc *appPermission.Service
	loginSvc      *appAuth.LoginService
	limiter       ratelimit.RateLimiter

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter
}

// NewContainer wires every component of the API over db.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, Metrics, Repositories
	c.initInfrastructure()

	// Section 2: Services - Engine, Audit, Administration, Login
	c.initServices()

	// Section 3: Middlewares and Handlers
	c.initMiddlewares()
	c.initHandlers()

	return c
}

// Engine returns the gin engine the routes are mounted on.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown releases connections owned by the container. The database is
// owned by the caller.
func (c *Container) Shutdown(ctx context.Context) {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
	c.log.Infow("container shut down")
}
