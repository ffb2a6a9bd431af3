package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", d.Auth.Signup())
		authGroup.POST("/login", d.Auth.Login())
	}
}
