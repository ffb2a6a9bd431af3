package store

import (
	"context"
	"strings"
	"time"

	"github.com/Black25dvp/silverlux/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	// PopularWindow is how far back popularity is counted.
	PopularWindow = 30 * 24 * time.Hour
	// PopularLimit is how many products the ranking returns.
	PopularLimit = 5
	// QuickSearchLimit caps the results of a quick search.
	QuickSearchLimit = 8
)

// PopularProduct is a product with the number of search events naming it.
type PopularProduct struct {
	models.Product
	SearchCount int64 `json:"search_count"`
}

// Searches is the product_searches telemetry table.
type Searches struct {
	db *gorm.DB
}

func NewSearches(db *gorm.DB) *Searches {
	return &Searches{db: db}
}

// Record appends one search or click event.
func (s *Searches) Record(ctx context.Context, ev *models.ProductSearch) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(ev).Error, "record search")
}

// Popular returns up to limit products with the most events at or after
// since, most searched first. Ties are broken by product id.
func (s *Searches) Popular(ctx context.Context, since time.Time, limit int) ([]PopularProduct, error) {
	var counts []struct {
		ProductID string
		Hits      int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.ProductSearch{}).
		Select("product_id, COUNT(*) AS hits").
		Where("product_id IS NOT NULL AND created_at >= ?", since).
		Group("product_id").
		Order("hits DESC").Order("product_id ASC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "count searches")
	}
	if len(counts) == 0 {
		return []PopularProduct{}, nil
	}

	ids := make([]string, len(counts))
	for i, c := range counts {
		ids[i] = c.ProductID
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "load popular products")
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]PopularProduct, 0, len(counts))
	for _, c := range counts {
		if p, ok := byID[c.ProductID]; ok {
			out = append(out, PopularProduct{Product: p, SearchCount: c.Hits})
		}
	}
	return out, nil
}

// Match returns up to limit products whose name, description or category
// contains term, ignoring case.
func (s *Searches) Match(ctx context.Context, term string, limit int) ([]models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, errors.Wrap(err, "search products")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
