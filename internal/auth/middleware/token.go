package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gubbigubbi/easy-social-sharing/internal/auth"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"go.uber.org/zap"
)

// tokenHeader is where widgets normally send the action token; the
// "security" form/query field is accepted as a fallback for older embeds
const tokenHeader = "X-Share-Token"

// ShareToken verifies the signed action token for a share endpoint
func ShareToken(tm *auth.TokenManager, action string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(tokenHeader)
		if token == "" {
			token = c.Query("security")
		}
		if token == "" {
			token = c.PostForm("security")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing share token"})
			c.Abort()
			return
		}

		if err := tm.Verify(token, action); err != nil {
			log.Warn("share token rejected",
				zap.String("action", action),
				zap.String("ip", c.ClientIP()),
				zap.Error(err),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid share token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
