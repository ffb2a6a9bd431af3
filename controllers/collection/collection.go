package collectionController

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

type collectionInput struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description *string `json:"description"`
	ImageURL    string  `json:"image_url"`
	IsSoldOut   bool    `json:"is_sold_out"`
}

func (in collectionInput) applyTo(col *models.Collection) {
	col.Name = strings.TrimSpace(in.Name)
	col.Description = in.Description
	col.ImageURL = strings.TrimSpace(in.ImageURL)
	col.IsSoldOut = in.IsSoldOut
}

func findCollection(c *gin.Context, db *gorm.DB, id string) (models.Collection, error) {
	var col models.Collection
	if _, err := uuid.Parse(id); err != nil {
		return col, errors.Wrapf(models.ErrNotFound, "collection %s", id)
	}
	err := db.WithContext(c.Request.Context()).First(&col, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return col, errors.Wrapf(models.ErrNotFound, "collection %s", id)
	}
	return col, models.Remote("load collection", err)
}

// GET /collections
func ListCollections(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		collections := []models.Collection{}
		if err := db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&collections).Error; err != nil {
			controllers.Fail(c, models.Remote("list collections", err))
			return
		}
		c.JSON(http.StatusOK, collections)
	}
}

// GET /collections/:id
func GetCollectionByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		col, err := findCollection(c, db, c.Param("id"))
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		products := []models.Product{}
		err = db.WithContext(c.Request.Context()).
			Model(&col).
			Order("products.created_at DESC").
			Association("Products").
			Find(&products)
		if err != nil {
			controllers.Fail(c, models.Remote("load collection products", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"collection": col, "products": products})
	}
}

func CreateCollection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input collectionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}

		var col models.Collection
		input.applyTo(&col)
		if err := db.WithContext(c.Request.Context()).Create(&col).Error; err != nil {
			controllers.Fail(c, models.Remote("create collection", err))
			return
		}
		c.JSON(http.StatusCreated, col)
	}
}

func UpdateCollection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		col, err := findCollection(c, db, c.Param("id"))
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		var input collectionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}

		input.applyTo(&col)
		if err := db.WithContext(c.Request.Context()).Save(&col).Error; err != nil {
			controllers.Fail(c, models.Remote("update collection", err))
			return
		}
		c.JSON(http.StatusOK, col)
	}
}

func DeleteCollection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		col, err := findCollection(c, db, c.Param("id"))
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&col).Association("Products").Clear(); err != nil {
				return err
			}
			return tx.Delete(&col).Error
		})
		if err != nil {
			controllers.Fail(c, models.Remote("delete collection", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Collection deleted successfully"})
	}
}

// POST /admin/collections/:id/products {product_id}
func AddProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ProductID string `json:"product_id" binding:"required,uuid"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}

		col, err := findCollection(c, db, c.Param("id"))
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		tx := db.WithContext(c.Request.Context())
		var product models.Product
		if err := tx.First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				controllers.Fail(c, errors.Wrapf(models.ErrNotFound, "product %s", input.ProductID))
				return
			}
			controllers.Fail(c, models.Remote("load product", err))
			return
		}

		// Append skips rows already in the join table
		if err := tx.Model(&col).Association("Products").Append(&product); err != nil {
			controllers.Fail(c, models.Remote("add collection product", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product added to collection"})
	}
}

// DELETE /admin/collections/:id/products/:product_id
func RemoveProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		col, err := findCollection(c, db, c.Param("id"))
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		productID := c.Param("product_id")
		if _, err := uuid.Parse(productID); err != nil {
			controllers.Fail(c, errors.Wrapf(models.ErrNotFound, "product %s", productID))
			return
		}

		product := models.Product{ID: productID}
		if err := db.WithContext(c.Request.Context()).Model(&col).Association("Products").Delete(&product); err != nil {
			controllers.Fail(c, models.Remote("remove collection product", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product removed from collection"})
	}
}
