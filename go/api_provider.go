package storefrontserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	ordermapper "github.com/Apurer/storefront-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

const dateOnly = "2006-01-02"

var errInvalidDate = errors.New("must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")

// ProviderAPI serves the order management screens.
type ProviderAPI struct {
	service orderports.Service
}

// NewProviderAPI creates a ProviderAPI backed by the provided order service.
func NewProviderAPI(service orderports.Service) ProviderAPI {
	return ProviderAPI{service: service}
}

// ListOrdersParams are the order list query parameters.
type ListOrdersParams struct {
	Search *string `form:"search"`
	Status *string `form:"status"`
	Start  *string `form:"start"`
	End    *string `form:"end"`
	SortBy *string `form:"sortBy"`
	Page   *int    `form:"page"`
}

// Get /v1/provider/orders
// Filter, sort and page placed orders
func (api *ProviderAPI) ListOrders(c *gin.Context) {
	var params ListOrdersParams
	query := c.Request.URL.Query()
	for name, dest := range map[string]any{
		"search": &params.Search,
		"status": &params.Status,
		"start":  &params.Start,
		"end":    &params.End,
		"sortBy": &params.SortBy,
		"page":   &params.Page,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			respondError(c, fmt.Errorf("invalid format for parameter %s: %w", name, err))
			return
		}
	}
	dates, fields := params.dateRange()
	if len(fields) > 0 {
		responder.ValidationFailed(c, fields)
		return
	}
	input := ordertypes.ListOrdersInput{
		ViewID: c.GetHeader(HeaderSessionID),
		Filter: ordersdomain.Filter{
			Search:    deref(params.Search),
			Status:    deref(params.Status),
			DateRange: dates,
			SortBy:    ordersdomain.SortOrder(deref(params.SortBy)),
		},
		PageSize: ordersdomain.DefaultPageSize,
	}
	if params.Page != nil {
		input.Page = *params.Page
	}
	page, err := api.service.ListOrders(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromPage(page))
}

// dateRange parses the optional bounds. A date-only end covers that whole day.
func (p ListOrdersParams) dateRange() (ordersdomain.DateRange, map[string]string) {
	var r ordersdomain.DateRange
	fields := map[string]string{}
	if start, ok, err := parseDate(p.Start); err != nil {
		fields["start"] = err.Error()
	} else if ok {
		r.Start = &start.at
	}
	if end, ok, err := parseDate(p.End); err != nil {
		fields["end"] = err.Error()
	} else if ok {
		at := end.at
		if end.dateOnly {
			at = at.Add(24*time.Hour - time.Nanosecond)
		}
		r.End = &at
	}
	return r, fields
}

type parsedDate struct {
	at       time.Time
	dateOnly bool
}

func parseDate(raw *string) (parsedDate, bool, error) {
	if raw == nil || *raw == "" {
		return parsedDate{}, false, nil
	}
	if t, err := time.ParseInLocation(dateOnly, *raw, time.UTC); err == nil {
		return parsedDate{at: t, dateOnly: true}, true, nil
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return parsedDate{at: t}, true, nil
	}
	return parsedDate{}, false, errInvalidDate
}

// Get /v1/provider/orders/:orderId
// Find order by ID
func (api *ProviderAPI) GetOrderById(c *gin.Context) {
	id := c.Param("orderId")
	order, err := api.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, orderports.ErrNotFound) {
			responder.NotFound(c, "order", id)
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomain(order))
}

// Patch /v1/provider/orders/:orderId/status
// Move an order to a new status
func (api *ProviderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload ordermapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, err)
		return
	}
	id := c.Param("orderId")
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), ordertypes.UpdateStatusInput{
		ID:             id,
		Status:         payload.Status,
		TrackingNumber: payload.TrackingNumber,
		Notes:          payload.Notes,
	})
	if err != nil {
		if errors.Is(err, orderports.ErrNotFound) {
			responder.NotFound(c, "order", id)
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomain(order))
}

// Get /v1/provider/dashboard
// Summarize placed orders
func (api *ProviderAPI) GetDashboard(c *gin.Context) {
	dashboard, err := api.service.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDashboard(dashboard))
}
