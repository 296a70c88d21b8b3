package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/application/audit"
	"github.com/tillgate/tillgate/internal/application/authorization"
	"github.com/tillgate/tillgate/internal/shared/constants"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

// ReasonInsufficientRoleLevel is recorded when a level guard denies.
const ReasonInsufficientRoleLevel = "insufficient_role_level"

type Authorizer interface {
	Decide(ctx context.Context, userID uint, resource, action string, reqCtx map[string]any) authorization.Decision
	HasAnyPermission(ctx context.Context, userID uint, refs []authorization.PermissionRef, reqCtx map[string]any) bool
	HasAllPermissions(ctx context.Context, userID uint, refs []authorization.PermissionRef, reqCtx map[string]any) bool
	GetUserRoleLevel(ctx context.Context, userID uint) int
}

type DenialRecorder interface {
	RecordDenial(ctx context.Context, d audit.Denial)
}

// PermissionMiddleware guards routes with the decision engine. Every denial
// writes exactly one audit entry and answers 403 naming what was required.
type PermissionMiddleware struct {
	authz  Authorizer
	denied DenialRecorder
	logger logger.Interface
}

func NewPermissionMiddleware(authz Authorizer, denied DenialRecorder, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		authz:  authz,
		denied: denied,
		logger: logger,
	}
}

func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	required := authorization.PermissionRef{Resource: resource, Action: action}
	return func(c *gin.Context) {
		userID, ok := m.principal(c)
		if !ok {
			return
		}

		decision := m.authz.Decide(c.Request.Context(), userID, resource, action, requestContext(c, userID))
		if !decision.Allowed {
			m.deny(c, userID, required, required.String(), decision.Reason.String())
			return
		}

		c.Next()
	}
}

func (m *PermissionMiddleware) RequireAnyPermission(refs ...authorization.PermissionRef) gin.HandlerFunc {
	required := joinRefs(refs, "|")
	return func(c *gin.Context) {
		userID, ok := m.principal(c)
		if !ok {
			return
		}

		if !m.authz.HasAnyPermission(c.Request.Context(), userID, refs, requestContext(c, userID)) {
			m.deny(c, userID, firstRef(refs), required, authorization.ReasonNoMatchingPermission.String())
			return
		}

		c.Next()
	}
}

func (m *PermissionMiddleware) RequireAllPermissions(refs ...authorization.PermissionRef) gin.HandlerFunc {
	required := joinRefs(refs, ",")
	return func(c *gin.Context) {
		userID, ok := m.principal(c)
		if !ok {
			return
		}

		if !m.authz.HasAllPermissions(c.Request.Context(), userID, refs, requestContext(c, userID)) {
			m.deny(c, userID, firstRef(refs), required, authorization.ReasonNoMatchingPermission.String())
			return
		}

		c.Next()
	}
}

// RequireRoleLevel admits users whose highest effective role level is at
// least minLevel.
func (m *PermissionMiddleware) RequireRoleLevel(minLevel int) gin.HandlerFunc {
	required := fmt.Sprintf("role_level:%d", minLevel)
	return func(c *gin.Context) {
		userID, ok := m.principal(c)
		if !ok {
			return
		}

		level := m.authz.GetUserRoleLevel(c.Request.Context(), userID)
		if level < minLevel {
			m.logger.Warnw("role level too low",
				"user_id", userID,
				"required_level", minLevel,
				"current_level", level)
			m.record(c, authorization.PermissionRef{Resource: "role_level", Action: "access"}, required, ReasonInsufficientRoleLevel)
			utils.ForbiddenResponse(c, constants.ErrMsgInsufficientLevel, required)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *PermissionMiddleware) principal(c *gin.Context) (uint, bool) {
	userID, ok := CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgAuthRequired)
		c.Abort()
		return 0, false
	}
	return userID, true
}

func (m *PermissionMiddleware) deny(c *gin.Context, userID uint, ref authorization.PermissionRef, required, reason string) {
	m.logger.Warnw("permission denied",
		"user_id", userID,
		"required", required,
		"reason", reason,
		"path", c.FullPath())
	m.record(c, ref, required, reason)
	utils.ForbiddenResponse(c, constants.ErrMsgInsufficientPerms, required)
	c.Abort()
}

func (m *PermissionMiddleware) record(c *gin.Context, ref authorization.PermissionRef, required, reason string) {
	if c.GetBool(constants.ContextKeyAuditRecorded) {
		return
	}
	c.Set(constants.ContextKeyAuditRecorded, true)

	var resourceID *string
	if id := c.Param("id"); id != "" {
		resourceID = &id
	}
	m.denied.RecordDenial(c.Request.Context(), audit.Denial{
		Resource:           ref.Resource,
		Action:             ref.Action,
		ResourceID:         resourceID,
		RequiredPermission: required,
		Reason:             reason,
	})
}

// requestContext is what conditions are evaluated against.
func requestContext(c *gin.Context, userID uint) map[string]any {
	ctx := map[string]any{
		"userId": userID,
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}
	if id := c.Param("id"); id != "" {
		if n, err := strconv.ParseUint(id, 10, 64); err == nil {
			ctx["resourceId"] = n
		} else {
			ctx["resourceId"] = id
		}
	}
	return ctx
}

func joinRefs(refs []authorization.PermissionRef, sep string) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, sep)
}

func firstRef(refs []authorization.PermissionRef) authorization.PermissionRef {
	if len(refs) == 0 {
		return authorization.PermissionRef{}
	}
	return refs[0]
}
