package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireReviewer creates a Gin middleware handler that rejects requests
// from users without the reviewer role. Must run after AuthMiddleware.
func RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIsReviewerFromContext(c) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Non-reviewer attempted a reviewer operation")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Reviewer role required"})
			return
		}
		c.Next()
	}
}
