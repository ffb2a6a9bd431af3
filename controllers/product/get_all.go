package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/catalog"
	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

// GetProducts lists the catalog, newest first, narrowed by the filter in the
// query string (search, category, min_price, max_price, free_shipping).
// The category list and the price ceiling are computed over the whole
// catalog so the client can render its filter controls.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&products).Error; err != nil {
			controllers.Fail(c, models.Remote("list products", err))
			return
		}

		filter, err := catalog.ParseFilter(c.Request.URL.Query(), products)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		matched := catalog.Apply(products, filter)

		c.JSON(http.StatusOK, gin.H{
			"products":   matched,
			"total":      len(matched),
			"categories": catalog.Categories(products),
			"max_price":  catalog.MaxPrice(products),
		})
	}
}
