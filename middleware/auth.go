package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Black25dvp/silverlux/auth"
	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

// OptionalUser sets user_id and role when a valid token is present and
// otherwise lets the request through anonymously. A malformed or expired
// token is treated like no token.
func OptionalUser(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("Authorization"); raw != "" {
			if claims, err := tokens.Parse(raw); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireUser rejects requests without a valid token.
func RequireUser(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			// websocket clients cannot set headers from the browser
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// RequireAdmin is RequireUser plus an admin role check.
func RequireAdmin(tokens *auth.Tokens) gin.HandlerFunc {
	requireUser := RequireUser(tokens)
	return func(c *gin.Context) {
		requireUser(c)
		if c.IsAborted() {
			return
		}
		if models.Role(c.GetString(controllers.RoleKey)) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		}
	}
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(controllers.UserIDKey, claims.UserID)
	c.Set(controllers.RoleKey, string(claims.Role))
	c.Set("email", claims.Email)
}
