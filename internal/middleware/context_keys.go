package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID in the request context.
const userIDKey = contextKey("userID")

// isReviewerKey is the key used to store the authenticated user's reviewer flag.
const isReviewerKey = contextKey("isReviewer")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal := c.Request.Context().Value(userIDKey)
	if userIDVal == nil {
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		// This should not happen if the auth middleware sets it correctly.
		return "", false
	}
	return userID, true
}

// GetIsReviewerFromContext reports whether the authenticated user is a reviewer.
func GetIsReviewerFromContext(c *gin.Context) bool {
	isReviewer, ok := c.Request.Context().Value(isReviewerKey).(bool)
	return ok && isReviewer
}
