package adminController

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

// GET /admin/admins
func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins := []models.Admin{}
		if err := db.WithContext(c.Request.Context()).Order("email").Find(&admins).Error; err != nil {
			controllers.Fail(c, models.Remote("list admins", err))
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}

type emailInput struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// GrantAdmin records email as an admin and promotes its user row, if any.
// The new role shows up in tokens issued from the next sign-in.
// POST /admin/admins {email}
func GrantAdmin(db *gorm.DB, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailInput
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			admin := models.Admin{Email: email}
			if err := tx.Where(models.Admin{Email: email}).FirstOrCreate(&admin).Error; err != nil {
				return err
			}
			return tx.Model(&models.User{}).Where("email = ?", email).Update("role", models.RoleAdmin).Error
		})
		if err != nil {
			controllers.Fail(c, models.Remote("grant admin", err))
			return
		}

		log.WithField("email", email).Info("👑 admin granted")
		c.JSON(http.StatusOK, gin.H{"message": "Admin granted"})
	}
}

// DELETE /admin/admins/:email
func RevokeAdmin(db *gorm.DB, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.Param("email")))

		var removed int64
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			res := tx.Where("email = ?", email).Delete(&models.Admin{})
			if res.Error != nil {
				return res.Error
			}
			removed = res.RowsAffected
			return tx.Model(&models.User{}).Where("email = ?", email).Update("role", models.RoleUser).Error
		})
		if err != nil {
			controllers.Fail(c, models.Remote("revoke admin", err))
			return
		}
		if removed == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}

		log.WithField("email", email).Info("🚫 admin revoked")
		c.JSON(http.StatusOK, gin.H{"message": "Admin revoked"})
	}
}
