package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Black25dvp/silverlux/cart"
	"github.com/Black25dvp/silverlux/controllers"
)

type addInput struct {
	ProductID string `json:"product_id" binding:"required"`
}

type quantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func session(c *gin.Context, carts *cart.Registry) (*cart.Synchronizer, bool) {
	s, err := carts.Get(c.Request.Context(), controllers.CurrentUser(c))
	if err != nil {
		controllers.Fail(c, err)
		return nil, false
	}
	return s, true
}

// GET /user/cart
func GetCart(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(c, carts)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// POST /user/cart
func AddToCart(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input addInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}

		s, ok := session(c, carts)
		if !ok {
			return
		}
		notice, err := s.Add(c.Request.Context(), input.ProductID)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": notice, "cart": s.Snapshot()})
	}
}

// PUT /user/cart/:item_id
func UpdateCartItem(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input quantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}

		s, ok := session(c, carts)
		if !ok {
			return
		}
		if err := s.SetQuantity(c.Request.Context(), c.Param("item_id"), *input.Quantity); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// DELETE /user/cart/:item_id
func RemoveCartItem(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(c, carts)
		if !ok {
			return
		}
		if err := s.Remove(c.Request.Context(), c.Param("item_id")); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// DELETE /user/cart
func ClearCart(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(c, carts)
		if !ok {
			return
		}
		if err := s.Clear(c.Request.Context()); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}
