package middleware

import (
	"github.com/gin-gonic/gin"

	"moments-backend/internal/shared/utils"
)

// ClientIPMiddleware resolves the client IP once; Logger and the rate
// limiter read it back as "client_ip".
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", utils.ExtractClientIP(c))
		c.Next()
	}
}
