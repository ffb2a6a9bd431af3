// Package catalog holds the storefront's product filter engine.
package catalog

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Black25dvp/silverlux/models"
	"github.com/shopspring/decimal"
)

// FreeShippingThreshold is the price at or above which shipping is waived.
var FreeShippingThreshold = decimal.NewFromInt(200)

// Filter is the page-scoped filter state of a product listing. Every
// predicate is applied to every product; the result is their conjunction.
type Filter struct {
	Query        string          `json:"search"`
	Categories   []string        `json:"categories"`
	MinPrice     decimal.Decimal `json:"min_price"`
	MaxPrice     decimal.Decimal `json:"max_price"`
	FreeShipping bool            `json:"free_shipping"`
}

// NewFilter returns a filter that matches every product in products: no
// query, no categories, and a price interval of [0, max price].
func NewFilter(products []models.Product) Filter {
	var f Filter
	f.Reset(products)
	return f
}

// Reset clears every predicate. The price bounds go back to [0, current max]
// of products, never to a previously observed maximum.
func (f *Filter) Reset(products []models.Product) {
	f.Query = ""
	f.Categories = nil
	f.MinPrice = decimal.Zero
	f.MaxPrice = MaxPrice(products)
	f.FreeShipping = false
}

// Match reports whether p satisfies every predicate of f.
func (f Filter) Match(p models.Product) bool {
	return f.matchText(p) && f.matchCategory(p) && f.matchPrice(p) && f.matchShipping(p)
}

func (f Filter) matchText(p models.Product) bool {
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), q)
}

func (f Filter) matchCategory(p models.Product) bool {
	if len(f.Categories) == 0 {
		return true
	}
	return slices.Contains(f.Categories, p.Category)
}

func (f Filter) matchPrice(p models.Product) bool {
	return p.Price.GreaterThanOrEqual(f.MinPrice) && p.Price.LessThanOrEqual(f.MaxPrice)
}

func (f Filter) matchShipping(p models.Product) bool {
	return !f.FreeShipping || QualifiesForFreeShipping(p.Price)
}

// Apply returns the products matching f, in input order. An empty input
// yields an empty (non-nil) result.
func Apply(products []models.Product, f Filter) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// QualifiesForFreeShipping reports whether price reaches FreeShippingThreshold.
func QualifiesForFreeShipping(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(FreeShippingThreshold)
}

// MaxPrice returns the highest price in products, or zero for an empty list.
func MaxPrice(products []models.Product) decimal.Decimal {
	highest := decimal.Zero
	for _, p := range products {
		if p.Price.GreaterThan(highest) {
			highest = p.Price
		}
	}
	return highest
}

// Categories returns the distinct category labels of products in first-seen order.
func Categories(products []models.Product) []string {
	seen := make(map[string]bool, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// ParseFilter builds a filter from listing query parameters on top of the
// defaults NewFilter(products) would give:
//
//	search=<text>  category=<label> (repeatable)  min_price=<n>  max_price=<n>  free_shipping=true
func ParseFilter(q url.Values, products []models.Product) (Filter, error) {
	f := NewFilter(products)
	f.Query = strings.TrimSpace(q.Get("search"))

	for _, c := range q["category"] {
		if c = strings.TrimSpace(c); c != "" && !slices.Contains(f.Categories, c) {
			f.Categories = append(f.Categories, c)
		}
	}

	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, models.Invalid("min_price must be a number")
		}
		f.MinPrice = d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, models.Invalid("max_price must be a number")
		}
		f.MaxPrice = d
	}
	if v := q.Get("free_shipping"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, models.Invalid("free_shipping must be true or false")
		}
		f.FreeShipping = b
	}
	return f, nil
}

