package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/Black25dvp/silverlux/controllers/admin"
	collectionController "github.com/Black25dvp/silverlux/controllers/collection"
	productcontroller "github.com/Black25dvp/silverlux/controllers/product"
	userControllers "github.com/Black25dvp/silverlux/controllers/user"
	"github.com/Black25dvp/silverlux/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Everything requires an
// admin token except bootstrap, which requires the API key.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	r.POST("/admin/bootstrap", middleware.ValidateAPIKey(d.AdminAPIKey), d.Auth.Bootstrap())

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(d.Tokens))
	{
		// ─────────── Admin & User Management ───────────
		adminGroup.GET("/admins", adminController.GetAllAdmins(d.DB))
		adminGroup.POST("/admins", adminController.GrantAdmin(d.DB, d.Log))
		adminGroup.DELETE("/admins/:email", adminController.RevokeAdmin(d.DB, d.Log))
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(d.DB))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.DB, d.Carts))
			productAdmin.GET("", productcontroller.GetProducts(d.DB))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.DB, d.Carts))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.DB, d.Carts))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.DB))
		}

		// ─────────── Collection Management ───────────
		collectionAdmin := adminGroup.Group("/collections")
		{
			collectionAdmin.POST("", collectionController.CreateCollection(d.DB))
			collectionAdmin.GET("", collectionController.ListCollections(d.DB))
			collectionAdmin.PUT("/:id", collectionController.UpdateCollection(d.DB))
			collectionAdmin.DELETE("/:id", collectionController.DeleteCollection(d.DB))
			collectionAdmin.POST("/:id/products", collectionController.AddProduct(d.DB))
			collectionAdmin.DELETE("/:id/products/:product_id", collectionController.RemoveProduct(d.DB))
		}
	}
}
