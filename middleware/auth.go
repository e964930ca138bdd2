package middleware

import (
	"net/http"
	"strings"

	"consultbook/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextActorID = "actorID"
	ContextRole    = "role"
)

// JWTAuthMiddleware validates the bearer token and stores the actor id and
// role on the request context. Tokens are issued by the external auth
// service; this service only verifies them.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		actorID, role, err := utils.ExtractActorFromToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(ContextActorID, actorID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole rejects requests whose token carries a different role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions for this operation",
			})
			return
		}
		c.Next()
	}
}
