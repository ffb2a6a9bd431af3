package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&products).Error; err != nil {
			controllers.Fail(c, models.Remote("list products", err))
			return
		}

		file, err := productWorkbook(products)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}

func productWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range excelHeaders {
		headerRow.AddCell().SetValue(h)
	}

	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(deref(p.Description))
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(deref(p.Location))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}
