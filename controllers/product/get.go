package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/catalog"
	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

// CartInvalidator is told when products change under open carts.
type CartInvalidator interface {
	Invalidate()
}

// GetProductByID returns a single product and whether it ships free.
// URL param: /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := findProduct(c, db, c.Param("id"))
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"product":       product,
			"free_shipping": catalog.QualifiesForFreeShipping(product.Price),
		})
	}
}

func findProduct(c *gin.Context, db *gorm.DB, id string) (models.Product, error) {
	var product models.Product
	if _, err := uuid.Parse(id); err != nil {
		return product, errors.Wrapf(models.ErrNotFound, "product %s", id)
	}
	err := db.WithContext(c.Request.Context()).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product, errors.Wrapf(models.ErrNotFound, "product %s", id)
	}
	return product, models.Remote("load product", err)
}
