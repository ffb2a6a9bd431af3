// Package cart keeps an in-memory view of a signed-in user's cart in step
// with the cart_items table.
//
// Every mutation is one remote call followed by a full reload. The local
// snapshot is only ever replaced wholesale after a successful load, so a
// failed mutation leaves the last known-good state in place.
package cart

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Store is the remote per-user cart table. Implementations return an error
// wrapping models.ErrNotFound when an item or product does not resolve for
// the given user.
type Store interface {
	// Items returns the user's rows joined with product display fields.
	Items(ctx context.Context, userID string) ([]Line, error)
	// FindByProduct returns the id of the user's row for productID.
	FindByProduct(ctx context.Context, userID, productID string) (string, error)
	Insert(ctx context.Context, userID, productID string, quantity int) error
	// Increment adds delta to the row's quantity in a single statement.
	Increment(ctx context.Context, userID, itemID string, delta int) error
	SetQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Delete(ctx context.Context, userID, itemID string) error
	DeleteAll(ctx context.Context, userID string) error
}

// Line is a cart row flattened with its product's display fields.
type Line struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// Snapshot is the cart as of the last successful load.
type Snapshot struct {
	Items []Line
}

// TotalItems is the sum of quantities.
func (s Snapshot) TotalItems() int {
	n := 0
	for _, l := range s.Items {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of price times quantity.
func (s Snapshot) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Items {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	items := s.Items
	if items == nil {
		items = []Line{}
	}
	return json.Marshal(struct {
		Items      []Line          `json:"items"`
		TotalItems int             `json:"total_items"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}{items, s.TotalItems(), s.TotalPrice()})
}
