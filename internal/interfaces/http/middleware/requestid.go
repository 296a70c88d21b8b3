package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tillgate/tillgate/internal/application/audit"
	"github.com/tillgate/tillgate/internal/shared/constants"
)

const maxRequestIDLength = 64

// RequestContext assigns a request ID, keeping a sane client-supplied
// X-Request-ID, and seeds the audit request info carried by the context.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)

		info := audit.RequestInfo{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RequestID: requestID,
			Endpoint:  c.Request.Method + " " + c.Request.URL.Path,
		}
		c.Request = c.Request.WithContext(audit.WithRequestInfo(c.Request.Context(), info))

		c.Next()
	}
}
