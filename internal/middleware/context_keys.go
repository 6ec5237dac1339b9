package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID in the Gin context.
const userIDKey = contextKey("userID")

// companyIDKey is the key the auth middleware stores the request's company
// scope under. The company ID travels as an explicit value from the token
// claim into every core operation; there is no ambient tenant state.
const companyIDKey = contextKey("companyID")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDVal := c.Request.Context().Value(userIDKey)
		if userIDVal != nil {
			userID, ok := userIDVal.(string)
			return userID, ok
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetCompanyIDFromContext retrieves the company scope from the Gin context.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	companyIDVal, exists := c.Get(string(companyIDKey))
	if !exists {
		companyIDVal := c.Request.Context().Value(companyIDKey)
		if companyIDVal != nil {
			companyID, ok := companyIDVal.(string)
			return companyID, ok
		}
		return "", false
	}

	companyID, ok := companyIDVal.(string)
	if !ok {
		return "", false
	}
	return companyID, true
}
