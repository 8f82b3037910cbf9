package catalog

// Product is one storefront catalog entry. The catalog is a fixed in-memory
// list; products are served and searched, never persisted.
type Product struct {
	ID          int     `json:"_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	IsNew       bool    `json:"isNew"`
	OldPrice    float64 `json:"oldPrice"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Quantity    int     `json:"quantity"`
}
