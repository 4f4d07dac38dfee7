package storefrontserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/lamunshop/storefront-api/internal/domains/checkout/adapters/http/mapper"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/ports"
	"github.com/lamunshop/storefront-api/internal/shared/auth"
	apierrors "github.com/lamunshop/storefront-api/internal/shared/errors"
	"github.com/lamunshop/storefront-api/internal/shared/locale"
)

// OrderAPI wires HTTP transport with the checkout bounded context service.
type OrderAPI struct {
	service ports.Service
	slips   ports.SlipStore
	catalog ports.ProductGateway
}

// NewOrderAPI creates an OrderAPI backed by the provided collaborators.
func NewOrderAPI(service ports.Service, slips ports.SlipStore, catalog ports.ProductGateway) OrderAPI {
	return OrderAPI{service: service, slips: slips, catalog: catalog}
}

// Post /v1/orders
// Place an order
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	customerID, ok := auth.CustomerID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	cmd, slip, err := normalizePlaceOrder(c, customerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if slip != nil {
		path, err := api.slips.SaveUpload(slip)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		cmd.SlipPath = path
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromOrder(order, api.productNames(c.Request.Context(), order)))
}

// Get /v1/orders
// List the caller's orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	customerID, ok := auth.CustomerID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	orders, err := api.service.ListOrders(c.Request.Context(), customerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromOrderList(orders, func(order *domain.Order) map[int64]string {
		return api.productNames(c.Request.Context(), order)
	}))
}

// Get /v1/orders/:orderId
// Fetch one of the caller's orders
func (api *OrderAPI) GetOrder(c *gin.Context) {
	customerID, ok := auth.CustomerID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), customerID, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromOrder(order, api.productNames(c.Request.Context(), order)))
}

// Post /v1/orders/:orderId/slip
// Attach a proof-of-payment to a pending order
func (api *OrderAPI) UploadSlip(c *gin.Context) {
	customerID, ok := auth.CustomerID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	file, err := c.FormFile("slip")
	if err != nil {
		respondProblem(c, apierrors.NewValidationProblem("slip", "slip file is required"))
		return
	}
	path, err := api.slips.SaveUpload(file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	order, err := api.service.AttachSlip(c.Request.Context(), customerID, orderID, path)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromOrder(order, api.productNames(c.Request.Context(), order)))
}

// productNames resolves display names for the order's lines in the locale the
// order was placed under. A product deleted since placement falls back to the
// placeholder inside the mapper.
func (api *OrderAPI) productNames(ctx context.Context, order *domain.Order) map[int64]string {
	names := map[int64]string{}
	if order == nil {
		return names
	}
	for _, item := range order.Items {
		if _, done := names[item.ProductID]; done {
			continue
		}
		product, err := api.catalog.Product(ctx, item.ProductID)
		if err != nil {
			continue
		}
		names[item.ProductID] = locale.Resolve(product.Names, order.Locale, locale.Default)
	}
	return names
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondProblem(c, apierrors.NewValidationProblem(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}
