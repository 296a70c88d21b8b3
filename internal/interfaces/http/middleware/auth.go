package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/application/audit"
	"github.com/tillgate/tillgate/internal/infrastructure/auth"
	"github.com/tillgate/tillgate/internal/shared/constants"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
	"github.com/tillgate/tillgate/internal/shared/utils/logutil"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
	logger logger.Interface
}

func NewAuthMiddleware(tokens TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		logger: logger,
	}
}

// RequireAuth establishes the principal from a Bearer access token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgAuthRequired)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}
		token := strings.TrimSpace(parts[1])

		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token",
				"token_prefix", logutil.TruncateForLog(token, 12),
				"client_ip", c.ClientIP(),
				"error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeySessionID, claims.SessionID)

		ctx := c.Request.Context()
		info := audit.RequestInfoFrom(ctx)
		userID := claims.UserID
		info.UserID = &userID
		info.SessionID = claims.SessionID
		c.Request = c.Request.WithContext(audit.WithRequestInfo(ctx, info))

		c.Next()
	}
}

// CurrentUserID returns the authenticated user, if any.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
