package middleware

import (
	"net/http"
	"strings"

	"github.com/creditdesk/backend/internal/auth"
	"github.com/gin-gonic/gin"
)

// RequireOpsToken guards operator routes with a bearer token carrying the
// given scope.
func RequireOpsToken(tokens *auth.TokenManager, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil || claims.Scope != scope {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("operator", claims.Operator)
		c.Next()
	}
}
