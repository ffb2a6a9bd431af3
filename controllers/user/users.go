package userControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

type UpdateUserInput struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
}

func currentUser(c *gin.Context, db *gorm.DB) (models.User, error) {
	var user models.User
	err := db.WithContext(c.Request.Context()).First(&user, "id = ?", controllers.CurrentUser(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, errors.Wrap(models.ErrNotFound, "user")
	}
	return user, models.Remote("load user", err)
}

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c, db)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		users := []models.User{}
		if err := db.WithContext(c.Request.Context()).Order("created_at desc").Find(&users).Error; err != nil {
			controllers.Fail(c, models.Remote("list users", err))
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// PUT /user
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c, db)
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}

		if input.Name != nil {
			if err := db.WithContext(c.Request.Context()).Model(&user).Update("name", strings.TrimSpace(*input.Name)).Error; err != nil {
				controllers.Fail(c, models.Remote("update user", err))
				return
			}
		}
		c.JSON(http.StatusOK, user)
	}
}
