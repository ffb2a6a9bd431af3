package routes

import (
	"github.com/gin-gonic/gin"

	collectionController "github.com/Black25dvp/silverlux/controllers/collection"
	productcontroller "github.com/Black25dvp/silverlux/controllers/product"
	searchController "github.com/Black25dvp/silverlux/controllers/search"
	"github.com/Black25dvp/silverlux/middleware"
)

// SetupCatalogRoutes registers products, collections and search.
func SetupCatalogRoutes(r *gin.Engine, d Deps) {
	public := r.Group("/")
	public.Use(middleware.OptionalUser(d.Tokens))
	{
		// ──────────────── Browse Products ────────────────
		public.GET("/products", productcontroller.GetProducts(d.DB))
		public.GET("/products/:id", productcontroller.GetProductByID(d.DB))

		// ──────────────── Collections ────────────────
		public.GET("/collections", collectionController.ListCollections(d.DB))
		public.GET("/collections/:id", collectionController.GetCollectionByID(d.DB))

		// ──────────────── Search ────────────────
		public.GET("/search", searchController.QuickSearch(d.Searches))
		public.POST("/search", searchController.RecordSearch(d.Searches, d.Log))
		public.POST("/search/clicks", searchController.RecordClick(d.Searches, d.Log))
		public.GET("/search/popular", searchController.PopularProducts(d.Searches))
	}
}
