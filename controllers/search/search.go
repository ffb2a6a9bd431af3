package searchController

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
	"github.com/Black25dvp/silverlux/store"
)

// QuickSearch matches q against product name, description and category.
// GET /search?q=
func QuickSearch(searches *store.Searches) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := strings.TrimSpace(c.Query("q"))
		if term == "" {
			c.JSON(http.StatusOK, []models.Product{})
			return
		}

		products, err := searches.Match(c.Request.Context(), term, store.QuickSearchLimit)
		if err != nil {
			controllers.Fail(c, models.Remote("quick search", err))
			return
		}
		if products == nil {
			products = []models.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

// RecordSearch logs a submitted search term.
// POST /search {term}
func RecordSearch(searches *store.Searches, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Term string `json:"term" binding:"required,max=200"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}
		term := strings.TrimSpace(input.Term)
		if term == "" {
			controllers.Fail(c, models.Invalid("term is required"))
			return
		}

		record(c, searches, log, &models.ProductSearch{SearchTerm: &term})
	}
}

// RecordClick logs a product picked from the search results.
// POST /search/clicks {product_id, term}
func RecordClick(searches *store.Searches, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ProductID string `json:"product_id" binding:"required,uuid"`
			Term      string `json:"term" binding:"max=200"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}

		ev := &models.ProductSearch{ProductID: &input.ProductID}
		if term := strings.TrimSpace(input.Term); term != "" {
			ev.SearchTerm = &term
		}
		record(c, searches, log, ev)
	}
}

func record(c *gin.Context, searches *store.Searches, log logrus.FieldLogger, ev *models.ProductSearch) {
	if uid := controllers.CurrentUser(c); uid != "" {
		ev.UserID = &uid
	}
	if err := searches.Record(c.Request.Context(), ev); err != nil {
		log.WithError(err).Warn("❌ failed to record search")
		controllers.Fail(c, models.Remote("record search", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": ev.ID})
}

// PopularProducts returns the most searched products of the trailing window.
// GET /search/popular
func PopularProducts(searches *store.Searches) gin.HandlerFunc {
	return func(c *gin.Context) {
		since := time.Now().UTC().Add(-store.PopularWindow)
		popular, err := searches.Popular(c.Request.Context(), since, store.PopularLimit)
		if err != nil {
			controllers.Fail(c, models.Remote("popular products", err))
			return
		}
		c.JSON(http.StatusOK, popular)
	}
}
