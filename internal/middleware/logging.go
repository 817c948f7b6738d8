// internal/middleware/logging.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/friendstream/webapp/internal/services"
)

// RequestID tags every request with a correlation ID, echoed in the
// response and forwarded to the backend services by the API clients.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(services.WithRequestID(c.Request.Context(), id))
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": duration.Milliseconds(),
			"ip":       c.ClientIP(),
		}
		if id, exists := c.Get("request_id"); exists {
			fields["request_id"] = id
		}
		if sess, ok := CurrentSession(c); ok {
			fields["username"] = sess.Username
		}

		logrus.WithFields(fields).Info("Request processed")
	}
}
