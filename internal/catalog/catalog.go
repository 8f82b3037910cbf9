package catalog

import (
	"math"
	"strings"
)

// Catalog serves product lookups and search over a fixed product list.
// All operations are synchronous and deterministic; list order is preserved.
type Catalog struct {
	products []Product
}

// New creates a catalog over the given products. A nil slice falls back to
// the built-in seed data.
func New(products []Product) *Catalog {
	if products == nil {
		products = Default()
	}
	return &Catalog{products: products}
}

// Products returns the full catalog in original order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given id.
func (c *Catalog) Get(id int) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Search returns the products whose title, description, or category contains
// the trimmed, lower-cased query as a substring. An empty or whitespace-only
// query returns the full catalog.
func (c *Catalog) Search(query string) []Product {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return c.Products()
	}
	out := []Product{}
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}

// DiscountPercent computes the discount badge shown on product cards,
// rounded to a whole percent. Returns 0 when either price is not positive.
func DiscountPercent(oldPrice, price float64) int {
	if oldPrice <= 0 || price <= 0 {
		return 0
	}
	return int(math.Round(100 - (price/oldPrice)*100))
}
