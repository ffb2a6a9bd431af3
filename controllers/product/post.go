package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

type productInput struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url" binding:"required"`
	Category    string          `json:"category" binding:"required,max=100"`
	Location    *string         `json:"location"`
}

func (in productInput) validate() error {
	if in.Price.IsNegative() {
		return models.Invalid("price must not be negative")
	}
	return nil
}

func (in productInput) applyTo(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	p.Category = strings.TrimSpace(in.Category)
	p.Location = in.Location
}

func bindProduct(c *gin.Context) (productInput, error) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return input, controllers.BindError(err)
	}
	return input, input.validate()
}

// CreateProduct adds a product to the catalog.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := bindProduct(c)
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		var product models.Product
		input.applyTo(&product)
		if err := db.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
			controllers.Fail(c, models.Remote("create product", err))
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
