package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/storefront-api/internal/domains/cart/application"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

var responder = apierrors.NewResponder("",
	mapFieldValidation,
	mapEmptyCart,
	mapInvalidInput,
	mapNotFound,
	mapConflict,
)

// respondError answers a malformed request that never reached a service.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.BadRequest(c, err.Error())
}

// respondServiceError maps service errors onto problem documents.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func mapFieldValidation(err error) (apierrors.ProblemDetail, bool) {
	var validation *ordersdomain.ValidationError
	if errors.As(err, &validation) {
		return apierrors.NewValidationProblem(validation.Fields), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapEmptyCart(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, ordersdomain.ErrEmptyCart) {
		return apierrors.ErrEmptyCart, true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrInvalidInput) ||
		errors.Is(err, cartapp.ErrInvalidInput) ||
		errors.Is(err, ordersapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogports.ErrNotFound) ||
		errors.Is(err, cartapp.ErrProductNotFound) ||
		errors.Is(err, ordersports.ErrNotFound) {
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflict(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrCheckoutInProgress):
		return apierrors.ErrCheckoutInProgress.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrIdempotencyConflict), errors.Is(err, ordersports.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
