package mapper

import (
	"time"

	catalogmapper "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/http/mapper"
	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/shared/pricing"
)

// Address is the shipping address payload.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country,omitempty"`
}

// Customer is the contact and shipping payload.
type Customer struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
}

// CheckoutRequest is the checkout form submission. Field checks happen in the domain so every
// problem is reported at once.
type CheckoutRequest struct {
	Customer Customer `json:"customer"`
}

// UpdateStatusRequest moves an order to a new status.
type UpdateStatusRequest struct {
	Status         string  `json:"status" binding:"required"`
	TrackingNumber *string `json:"trackingNumber,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// LineItem is a placed order line.
type LineItem struct {
	Product   catalogmapper.Product `json:"product"`
	Quantity  int                   `json:"quantity"`
	LineTotal string                `json:"lineTotal"`
}

// Order is the HTTP representation of a placed order.
type Order struct {
	ID             string     `json:"id"`
	Customer       Customer   `json:"customer"`
	Items          []LineItem `json:"items"`
	ItemCount      int        `json:"itemCount"`
	Subtotal       string     `json:"subtotal"`
	Shipping       string     `json:"shipping"`
	TotalAmount    string     `json:"totalAmount"`
	Status         string     `json:"status"`
	OrderDate      time.Time  `json:"orderDate"`
	ShippingDate   *time.Time `json:"shippingDate,omitempty"`
	DeliveryDate   *time.Time `json:"deliveryDate,omitempty"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// OrderPage is one page of the provider order list.
type OrderPage struct {
	Items      []Order `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
	TotalCount int     `json:"totalCount"`
}

// Dashboard is the provider landing summary.
type Dashboard struct {
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  string  `json:"totalRevenue"`
	PendingOrders int     `json:"pendingOrders"`
	RecentOrders  []Order `json:"recentOrders"`
}

// CheckoutResponse wraps the placed order.
type CheckoutResponse struct {
	Order    Order `json:"order"`
	Replayed bool  `json:"replayed"`
}

// ToDomain maps the payload into the domain customer.
func (c Customer) ToDomain() domain.Customer {
	return domain.Customer{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address: domain.Address{
			Street:  c.Address.Street,
			City:    c.Address.City,
			State:   c.Address.State,
			ZipCode: c.Address.ZipCode,
			Country: c.Address.Country,
		},
	}
}

// FromDomain maps an order for transport.
func FromDomain(o *domain.Order) Order {
	if o == nil {
		return Order{}
	}
	c := o.Customer
	out := Order{
		ID: o.ID,
		Customer: Customer{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Address: Address{
				Street:  c.Address.Street,
				City:    c.Address.City,
				State:   c.Address.State,
				ZipCode: c.Address.ZipCode,
				Country: c.Address.Country,
			},
		},
		Items:          make([]LineItem, 0, len(o.Items)),
		ItemCount:      o.ItemCount(),
		Subtotal:       pricing.Display(o.Subtotal),
		Shipping:       pricing.Display(o.Shipping),
		TotalAmount:    pricing.Display(o.TotalAmount),
		Status:         string(o.Status),
		OrderDate:      o.OrderDate,
		ShippingDate:   o.ShippingDate,
		DeliveryDate:   o.DeliveryDate,
		TrackingNumber: o.TrackingNumber,
		Notes:          o.Notes,
	}
	for i := range o.Items {
		item := o.Items[i]
		out.Items = append(out.Items, LineItem{
			Product:   catalogmapper.FromDomain(&item.Product),
			Quantity:  item.Quantity,
			LineTotal: pricing.Display(item.LineTotal()),
		})
	}
	return out
}

// FromDomainList maps orders for transport, never returning nil.
func FromDomainList(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomain(o))
	}
	return out
}

// FromPage maps a query page.
func FromPage(p *domain.Page) OrderPage {
	if p == nil {
		return OrderPage{Items: []Order{}}
	}
	return OrderPage{
		Items:      FromDomainList(p.Orders),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		TotalCount: p.TotalCount,
	}
}

// FromDashboard maps dashboard figures.
func FromDashboard(d *domain.Dashboard) Dashboard {
	if d == nil {
		return Dashboard{TotalRevenue: "0.00", RecentOrders: []Order{}}
	}
	return Dashboard{
		TotalOrders:   d.TotalOrders,
		TotalRevenue:  pricing.Display(d.TotalRevenue),
		PendingOrders: d.PendingOrders,
		RecentOrders:  FromDomainList(d.Recent),
	}
}

// FromCheckoutResult maps a checkout outcome.
func FromCheckoutResult(r *ordertypes.CheckoutResult) CheckoutResponse {
	if r == nil {
		return CheckoutResponse{}
	}
	return CheckoutResponse{Order: FromDomain(r.Order), Replayed: r.Replayed}
}
