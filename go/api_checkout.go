package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/storefront-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// HeaderIdempotencyKey lets a client retry a checkout without placing a second order.
const HeaderIdempotencyKey = "Idempotency-Key"

// CheckoutAPI turns the session cart into an order.
type CheckoutAPI struct {
	service orderports.CheckoutService
}

// NewCheckoutAPI creates a CheckoutAPI backed by the provided checkout service.
func NewCheckoutAPI(service orderports.CheckoutService) CheckoutAPI {
	return CheckoutAPI{service: service}
}

// Post /v1/checkout
// Place an order from the session cart
func (api *CheckoutAPI) Checkout(c *gin.Context) {
	var payload ordermapper.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, err)
		return
	}
	result, err := api.service.Checkout(c.Request.Context(), ordertypes.CheckoutInput{
		SessionID:      sessionID(c),
		Customer:       payload.Customer.ToDomain(),
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, ordermapper.FromCheckoutResult(result))
}
