package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/auth"
	"github.com/Black25dvp/silverlux/cart"
	"github.com/Black25dvp/silverlux/store"
)

// Deps is everything the handlers close over.
type Deps struct {
	DB          *gorm.DB
	Carts       *cart.Registry
	Searches    *store.Searches
	Tokens      *auth.Tokens
	Auth        *auth.Handlers
	AdminAPIKey string
	Log         logrus.FieldLogger
}

// SetupRoutes is the single entry-point that wires up the public catalog,
// Auth, User and Admin route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// POST-only endpoints answer 405 to other methods
	r.HandleMethodNotAllowed = true

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 1️⃣ Storefront (optional auth)
	SetupCatalogRoutes(r, d)

	// 2️⃣ Public Auth routes
	SetupAuthRoutes(r, d)

	// 3️⃣ User routes (cart is optional-auth, the rest JWT-protected)
	SetupUserRoutes(r, d)

	// 4️⃣ Admin routes (admin JWT, bootstrap behind the API key)
	SetupAdminRoutes(r, d)
}
