package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

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
	"github.com/tillgate/tillgate/internal/shared/db"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/services/sanitize"
)

// ============================================================
// Section 1: Infrastructure - Redis, Metrics, Repositories
// ============================================================

func (c *Container) initInfrastructure() {
	c.metrics = metrics.New()
	c.repos = repository.NewSet(c.db)
	c.redis = initRedis(c.cfg, c.log)

	if c.redis != nil {
		c.limiter = ratelimit.NewRedisRateLimiter(c.redis)
	} else {
		c.limiter = ratelimit.NewMemoryRateLimiter()
	}
}

// initRedis connects to Redis when enabled. A failed ping falls back to the
// in-process limiter instead of aborting startup.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	if !cfg.Redis.Enabled {
		log.Infow("redis disabled, using in-memory rate limiter")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("failed to connect to Redis, using in-memory rate limiter", "addr", cfg.Redis.GetAddr(), "error", err)
		_ = client.Close()
		return nil
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return client
}

// ============================================================
// Section 2: Services - Engine, Audit, Administration, Login
// ============================================================

func (c *Container) initServices() {
	cfg := c.cfg
	log := c.log

	c.authz = authorization.NewEngine(c.repos.Access, log.Named("authz"), authorization.WithObserver(c.metrics))

	c.auditSvc = appAudit.NewService(c.repos.Audit, log.Named("audit"))
	c.auditSvc.SetFailureCounter(c.metrics)

	c.permissionSvc = appPermission.NewService(
		appPermission.Repositories{
			Users:           c.repos.Users,
			Roles:           c.repos.Roles,
			Permissions:     c.repos.Permissions,
			RolePermissions: c.repos.RolePermissions,
			UserRoles:       c.repos.UserRoles,
			UserPermissions: c.repos.UserPermissions,
			Access:          c.repos.Access,
		},
		db.NewTransactionManager(c.db),
		c.auditSvc,
		sanitize.NewTextSanitizer(),
		log.Named("permission"),
	)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.AccessTTL())
	c.loginSvc = appAuth.NewLoginService(
		c.repos.Users,
		auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		c.jwtSvc,
		c.authz,
		c.auditSvc,
		log.Named("login"),
	)
}

// ============================================================
// Section 3: Middlewares
// ============================================================

func (c *Container) initMiddlewares() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.authz, c.auditSvc, c.log)
	c.rateLimiter = middleware.NewRateLimiter(c.limiter, c.metrics, c.log)
}
