package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/models"
)

// Column order shared by import and export.
var excelHeaders = []string{
	"ID", "Name", "Description", "Price", "ImageURL", "Category", "Location", "CreatedAt", "UpdatedAt",
}

// ImportProductsFromExcel upserts products from the first sheet of an
// uploaded workbook. Rows with a known ID update that product; other rows
// create one. Rows without a name, category or valid price are skipped.
func ImportProductsFromExcel(db *gorm.DB, carts CartInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		tx := db.WithContext(c.Request.Context())
		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for _, row := range sheet.Rows[1:] {
			product, ok := productFromRow(row)
			if !ok {
				skippedCount++
				continue
			}

			if product.ID != "" {
				var existing models.Product
				if err := tx.First(&existing, "id = ?", product.ID).Error; err == nil {
					product.CreatedAt = existing.CreatedAt
					if err := tx.Save(&product).Error; err != nil {
						skippedCount++
						continue
					}
					updatedCount++
					continue
				}
			}

			if err := tx.Create(&product).Error; err != nil {
				skippedCount++
				continue
			}
			createdCount++
		}
		if updatedCount > 0 {
			carts.Invalidate()
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}

func productFromRow(row *xlsx.Row) (models.Product, bool) {
	if row == nil || len(row.Cells) < 6 {
		return models.Product{}, false
	}
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}
	optional := func(index int) *string {
		if v := get(index); v != "" {
			return &v
		}
		return nil
	}

	price, err := decimal.NewFromString(get(3))
	if err != nil || price.IsNegative() {
		return models.Product{}, false
	}
	product := models.Product{
		Name:        get(1),
		Description: optional(2),
		Price:       price.Round(2),
		ImageURL:    get(4),
		Category:    get(5),
		Location:    optional(6),
	}
	if product.Name == "" || product.Category == "" {
		return models.Product{}, false
	}
	if id := get(0); id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return models.Product{}, false
		}
		product.ID = id
	}
	return product, true
}
