package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/Black25dvp/silverlux/controllers/cart"
	userControllers "github.com/Black25dvp/silverlux/controllers/user"
	"github.com/Black25dvp/silverlux/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")

	// ──────────────── Shopping Cart ────────────────
	// Anonymous callers get an empty cart; adding is refused with 401 and the
	// other mutations do nothing.
	cartGroup := userGroup.Group("/cart")
	cartGroup.Use(middleware.OptionalUser(d.Tokens))
	{
		cartGroup.GET("", cartControllers.GetCart(d.Carts))                    // GET /user/cart
		cartGroup.POST("", cartControllers.AddToCart(d.Carts))                 // POST /user/cart
		cartGroup.PUT("/:item_id", cartControllers.UpdateCartItem(d.Carts))    // PUT /user/cart/:item_id
		cartGroup.DELETE("/:item_id", cartControllers.RemoveCartItem(d.Carts)) // DELETE /user/cart/:item_id
		cartGroup.DELETE("", cartControllers.ClearCart(d.Carts))               // DELETE /user/cart
	}

	account := userGroup.Group("")
	account.Use(middleware.RequireUser(d.Tokens))
	{
		// ──────────────── User Profile ────────────────
		account.GET("", userControllers.GetUser(d.DB))    // GET /user
		account.PUT("", userControllers.UpdateUser(d.DB)) // PUT /user
		account.POST("/logout", d.Auth.Logout())          // POST /user/logout

		// websocket endpoint for real-time cart updates
		account.GET("/cart/ws", cartControllers.CartWebSocketHandler(d.Carts, d.Log))
	}
}
