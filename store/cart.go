package store

import (
	"context"

	"github.com/Black25dvp/silverlux/cart"
	"github.com/Black25dvp/silverlux/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CartItems is the cart_items table. Every query is scoped to one user.
type CartItems struct {
	db *gorm.DB
}

var _ cart.Store = (*CartItems)(nil)

func NewCartItems(db *gorm.DB) *CartItems {
	return &CartItems{db: db}
}

func (s *CartItems) Items(ctx context.Context, userID string) ([]cart.Line, error) {
	var rows []models.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query cart items")
	}

	lines := make([]cart.Line, 0, len(rows))
	for _, row := range rows {
		if row.Product.ID == "" {
			continue
		}
		lines = append(lines, cart.Line{
			ID:        row.ID,
			ProductID: row.ProductID,
			Name:      row.Product.Name,
			Price:     row.Product.Price,
			ImageURL:  row.Product.ImageURL,
			Quantity:  row.Quantity,
		})
	}
	return lines, nil
}

func (s *CartItems) FindByProduct(ctx context.Context, userID, productID string) (string, error) {
	if !validID(productID) {
		return "", errors.Wrapf(models.ErrNotFound, "product %s", productID)
	}
	var item models.CartItem
	err := s.db.WithContext(ctx).
		Select("id").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.Wrapf(models.ErrNotFound, "cart item for product %s", productID)
	}
	if err != nil {
		return "", errors.Wrap(err, "find cart item")
	}
	return item.ID, nil
}

func (s *CartItems) Insert(ctx context.Context, userID, productID string, quantity int) error {
	if !validID(productID) {
		return errors.Wrapf(models.ErrNotFound, "product %s", productID)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Select("id").First(&product, "id = ?", productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrapf(models.ErrNotFound, "product %s", productID)
		}
		if err != nil {
			return errors.Wrap(err, "validate product")
		}

		item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		return errors.Wrap(tx.Create(&item).Error, "insert cart item")
	})
}

func (s *CartItems) Increment(ctx context.Context, userID, itemID string, delta int) error {
	if !validID(itemID) {
		return errors.Wrapf(models.ErrNotFound, "cart item %s", itemID)
	}
	res := s.scoped(ctx, userID, itemID).Update("quantity", gorm.Expr("quantity + ?", delta))
	return affected(res, itemID, "increment cart item")
}

func (s *CartItems) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if !validID(itemID) {
		return errors.Wrapf(models.ErrNotFound, "cart item %s", itemID)
	}
	res := s.scoped(ctx, userID, itemID).Update("quantity", quantity)
	return affected(res, itemID, "update cart item")
}

func (s *CartItems) Delete(ctx context.Context, userID, itemID string) error {
	if !validID(itemID) {
		return errors.Wrapf(models.ErrNotFound, "cart item %s", itemID)
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	return affected(res, itemID, "delete cart item")
}

func (s *CartItems) DeleteAll(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	return errors.Wrap(err, "clear cart")
}

func (s *CartItems) scoped(ctx context.Context, userID, itemID string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ? AND user_id = ?", itemID, userID)
}

func affected(res *gorm.DB, itemID, op string) error {
	if res.Error != nil {
		return errors.Wrap(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(models.ErrNotFound, "cart item %s", itemID)
	}
	return nil
}

// validID keeps malformed ids away from postgres uuid columns, which would
// reject them with a driver error instead of an empty result.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
