package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/elpatron68/task-web/internal/api"
	applog "github.com/elpatron68/task-web/internal/log"
)

// requestID reuses an incoming X-Request-ID or assigns a new one, echoes it
// on the response and passes it on to backend calls.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(api.RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(api.RequestIDHeader, id)
		c.Set("requestID", id)
		c.Request = c.Request.WithContext(api.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/healthz" {
			return
		}
		applog.With("rid", c.GetString("requestID")).Infof("%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
