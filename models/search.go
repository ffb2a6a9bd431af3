package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductSearch is an append-only telemetry row: a submitted search term, a
// clicked product, or both.
type ProductSearch struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	SearchTerm *string   `json:"search_term"`
	ProductID  *string   `gorm:"type:uuid;index" json:"product_id"`
	UserID     *string   `json:"user_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (s *ProductSearch) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
