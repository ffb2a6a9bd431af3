package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

// UpdateProduct replaces the editable fields of an existing product.
func UpdateProduct(db *gorm.DB, carts CartInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := findProduct(c, db, c.Param("id"))
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		input, err := bindProduct(c)
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		input.applyTo(&product)
		if err := db.WithContext(c.Request.Context()).Save(&product).Error; err != nil {
			controllers.Fail(c, models.Remote("update product", err))
			return
		}
		carts.Invalidate()
		c.JSON(http.StatusOK, product)
	}
}
