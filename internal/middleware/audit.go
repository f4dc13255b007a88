package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-portal-api/internal/service/audit"
)

// ClientInfo records the caller's address and user agent on the request
// context so audit entries written further down can pick them up
func ClientInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := audit.WithClientInfo(c.Request.Context(), c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
