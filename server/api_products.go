package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productmapper "github.com/lamunshop/storefront-api/internal/domains/catalog/adapters/http/mapper"
	"github.com/lamunshop/storefront-api/internal/domains/catalog/ports"
	"github.com/lamunshop/storefront-api/internal/shared/locale"
)

// ProductAPI wires HTTP transport with the catalog bounded context service.
type ProductAPI struct {
	service ports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service ports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Get /v1/products
// List the catalog
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromProductList(products, requestedLocale(c)))
}

// Get /v1/products/:productId
// Fetch one product
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromProduct(product, requestedLocale(c)))
}

// requestedLocale reads the display locale from the query string, falling
// back to the shop default.
func requestedLocale(c *gin.Context) string {
	if tag := locale.Normalize(c.Query("locale")); tag != "" {
		return tag
	}
	return locale.Default
}
