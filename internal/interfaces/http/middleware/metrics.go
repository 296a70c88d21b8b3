package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

type RequestObserver interface {
	RequestStarted()
	RequestFinished(method, path string, status int, elapsed time.Duration)
}

// Metrics reports every request by route template.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		observer.RequestStarted()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		observer.RequestFinished(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
