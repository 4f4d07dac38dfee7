package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	catalogports "github.com/lamunshop/storefront-api/internal/domains/catalog/ports"
	localslips "github.com/lamunshop/storefront-api/internal/domains/checkout/adapters/storage/local"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/application"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/application/types"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
	checkoutports "github.com/lamunshop/storefront-api/internal/domains/checkout/ports"
	apierrors "github.com/lamunshop/storefront-api/internal/shared/errors"
)

// serviceResponder maps checkout and catalog failures onto problem responses
// before the generic fallback kicks in. Anything unmapped stays a 500 with a
// generic message so persistence details never leak.
var serviceResponder = apierrors.NewChainedResponder("", checkoutErrorMapper, catalogErrorMapper, internalErrorMapper)

// checkoutErrorMapper covers the order placement taxonomy: request-shape,
// stock, coupon, and slip failures are the caller's fault and answer 400.
func checkoutErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	var validation *types.ValidationError
	if errors.As(err, &validation) {
		return apierrors.NewValidationProblem(validation.Field, validation.Error()), true
	}
	var unknownProduct *application.UnknownProductError
	if errors.As(err, &unknownProduct) {
		return apierrors.ErrBadRequest.WithDetail(unknownProduct.Error()), true
	}
	var insufficient *application.InsufficientStockError
	if errors.As(err, &insufficient) {
		return apierrors.ErrBadRequest.
			WithDetail(insufficient.Error()).
			WithExtension("productId", insufficient.ProductID), true
	}
	switch {
	case errors.Is(err, application.ErrMissingSlip),
		errors.Is(err, localslips.ErrUnsupportedType),
		errors.Is(err, domain.ErrCouponNotFound),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrCouponExhausted),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrInvalidQuantity):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, checkoutports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("order not found"), true
	}
	return apierrors.ProblemDetail{}, false
}

func catalogErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogports.ErrNotFound) {
		return apierrors.ErrNotFound.WithDetail("product not found"), true
	}
	return apierrors.ProblemDetail{}, false
}

// internalErrorMapper terminates the chain. The underlying error was already
// logged by the observability decorator; the caller only gets a generic
// message.
func internalErrorMapper(error) (apierrors.ProblemDetail, bool) {
	return apierrors.ErrInternal.WithDetail("an unexpected error occurred"), true
}

// respondServiceError funnels every handler failure through the mapper chain.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	serviceResponder.RespondError(c, err)
}
