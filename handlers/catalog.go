package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trstyle/storefront-services/internal/analytics"
	"github.com/trstyle/storefront-services/internal/catalog"
	"github.com/trstyle/storefront-services/pkg/metrics"
)

// CatalogHandler serves the product list and search over the static catalog.
type CatalogHandler struct {
	cat    *catalog.Catalog
	notify analytics.Notifier
}

func NewCatalogHandler(cat *catalog.Catalog, notify analytics.Notifier) *CatalogHandler {
	if notify == nil {
		notify = analytics.NopNotifier{}
	}
	return &CatalogHandler{cat: cat, notify: notify}
}

// Register routes under /api/v1
func (h *CatalogHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:id", h.GetProduct)
}

// ListProducts returns the catalog, filtered by the optional q parameter.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	query := c.Query("q")
	products := h.cat.Search(query)
	if query != "" {
		metrics.CatalogSearches.Inc()
		h.notify.Notify(c.Request.Context(), "search", map[string]interface{}{"search_term": query, "results": len(products)})
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProduct returns a single product with its discount badge value.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, ok := h.cat.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p, "discountPercent": catalog.DiscountPercent(p.OldPrice, p.Price)})
}
