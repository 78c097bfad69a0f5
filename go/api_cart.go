package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/Apurer/storefront-api/internal/domains/cart/adapters/http/mapper"
	carttypes "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
	cartports "github.com/Apurer/storefront-api/internal/domains/cart/ports"
)

// CartAPI serves the session cart.
type CartAPI struct {
	service cartports.Service
}

// NewCartAPI creates a CartAPI backed by the provided service.
func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Get /v1/cart
// Show the session cart with totals
func (api *CartAPI) GetCart(c *gin.Context) {
	cart, err := api.service.GetCart(c.Request.Context(), sessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromProjection(cart))
}

// Post /v1/cart/items
// Add a product to the cart
func (api *CartAPI) AddCartItem(c *gin.Context) {
	var payload cartmapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, err)
		return
	}
	cart, err := api.service.AddItem(c.Request.Context(), carttypes.AddItemInput{
		SessionID: sessionID(c),
		ProductID: payload.ProductID,
		Quantity:  payload.QuantityOrDefault(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromProjection(cart))
}

// Put /v1/cart/items/:productId
// Set a line's quantity; zero or less removes the line
func (api *CartAPI) UpdateCartItem(c *gin.Context) {
	var payload cartmapper.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, err)
		return
	}
	cart, err := api.service.UpdateQuantity(c.Request.Context(), carttypes.UpdateQuantityInput{
		SessionID: sessionID(c),
		ProductID: c.Param("productId"),
		Quantity:  *payload.Quantity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromProjection(cart))
}

// Delete /v1/cart/items/:productId
// Remove a line from the cart
func (api *CartAPI) RemoveCartItem(c *gin.Context) {
	cart, err := api.service.RemoveItem(c.Request.Context(), carttypes.ItemIdentifier{
		SessionID: sessionID(c),
		ProductID: c.Param("productId"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromProjection(cart))
}

// Delete /v1/cart
// Empty the cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	if err := api.service.Clear(c.Request.Context(), sessionID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
