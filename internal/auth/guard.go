package auth

import "github.com/gin-gonic/gin"

// AdminOnly lets the request through only for the administrator. Every other
// caller, anonymous or not, gets the same forbidden response.
func AdminOnly(forbidden gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

