package animals

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zooapi/internal/core"
)

// HeaderRequestID carries the request correlation id in both directions.
const HeaderRequestID = "X-Request-ID"

const ctxKeyRequestID = "request_id"

// RequestID propagates the caller's X-Request-ID or assigns a fresh one, and
// stores it on the request context for the service layer.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Set(ctxKeyRequestID, id)
		c.Request = c.Request.WithContext(core.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog logs one line per request once the handler chain has finished.
func AccessLog(logger core.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(ctxKeyRequestID),
		)
	}
}
