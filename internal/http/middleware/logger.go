package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/ces0491/fleet-manager/internal/utils"

	"github.com/gin-gonic/gin"
)

// Logger emits one access-log line per request through the shared event
// logger, keyed the same way service-layer events are.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		utils.LogEvent(GetRequestID(c), "http", strings.ToLower(c.Request.Method),
			fmt.Sprintf("path=%s status=%d duration=%s ip=%s",
				c.Request.URL.Path,
				c.Writer.Status(),
				time.Since(start).Round(time.Millisecond),
				c.ClientIP(),
			))
	}
}
