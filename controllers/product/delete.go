package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

// DeleteProduct removes a product along with its collection memberships and
// any cart rows pointing at it. Search events are kept; popularity skips ids
// that no longer resolve.
func DeleteProduct(db *gorm.DB, carts CartInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := findProduct(c, db, c.Param("id"))
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("DELETE FROM collection_products WHERE product_id = ?", product.ID).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			controllers.Fail(c, models.Remote("delete product", err))
			return
		}
		carts.Invalidate()

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
