package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs every request once it has been handled. Bodies are never
// logged since they may carry patient data.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		status := c.Writer.Status()

		l := RequestLogger(c)
		event := l.Info()
		msg := "Request processed"
		switch {
		case status >= 500:
			event = l.Error()
			msg = "Server error"
		case status >= 400:
			event = l.Warn()
			msg = "Client error"
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_agent", c.Request.UserAgent()).
			Msg(msg)
	}
}
