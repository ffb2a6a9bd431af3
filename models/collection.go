package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection is a curated group of products. Membership lives in the
// collection_products join table.
type Collection struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description"`
	ImageURL    string    `json:"image_url"`
	IsSoldOut   bool      `gorm:"not null;default:false" json:"is_sold_out"`
	Products    []Product `gorm:"many2many:collection_products;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
