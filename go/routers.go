package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderSessionID identifies the shopper session owning a cart.
const HeaderSessionID = "X-Session-ID"

const sessionContextKey = "storefront.session"

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handler sets served by the router.
type ApiHandleFunctions struct {
	CatalogAPI  CatalogAPI
	CartAPI     CartAPI
	CheckoutAPI CheckoutAPI
	ProviderAPI ProviderAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the storefront routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := router.Group("/v1", SessionMiddleware())
	for _, route := range getRoutes(handleFunctions) {
		v1.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// SessionMiddleware resolves the shopper session from X-Session-ID, minting one when absent, and
// echoes it on the response.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(HeaderSessionID)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Set(sessionContextKey, sessionID)
		c.Header(HeaderSessionID, sessionID)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"ListProducts", http.MethodGet, "/products", handleFunctions.CatalogAPI.ListProducts},
		{"FeaturedProducts", http.MethodGet, "/products/featured", handleFunctions.CatalogAPI.FeaturedProducts},
		{"GetProductById", http.MethodGet, "/products/:productId", handleFunctions.CatalogAPI.GetProductById},
		{"ListCategories", http.MethodGet, "/categories", handleFunctions.CatalogAPI.ListCategories},
		{"ListFaqs", http.MethodGet, "/faqs", handleFunctions.CatalogAPI.ListFaqs},
		{"GetCart", http.MethodGet, "/cart", handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/cart/items", handleFunctions.CartAPI.AddCartItem},
		{"UpdateCartItem", http.MethodPut, "/cart/items/:productId", handleFunctions.CartAPI.UpdateCartItem},
		{"RemoveCartItem", http.MethodDelete, "/cart/items/:productId", handleFunctions.CartAPI.RemoveCartItem},
		{"ClearCart", http.MethodDelete, "/cart", handleFunctions.CartAPI.ClearCart},
		{"Checkout", http.MethodPost, "/checkout", handleFunctions.CheckoutAPI.Checkout},
		{"ListOrders", http.MethodGet, "/provider/orders", handleFunctions.ProviderAPI.ListOrders},
		{"GetOrderById", http.MethodGet, "/provider/orders/:orderId", handleFunctions.ProviderAPI.GetOrderById},
		{"UpdateOrderStatus", http.MethodPatch, "/provider/orders/:orderId/status", handleFunctions.ProviderAPI.UpdateOrderStatus},
		{"GetDashboard", http.MethodGet, "/provider/dashboard", handleFunctions.ProviderAPI.GetDashboard},
	}
}
