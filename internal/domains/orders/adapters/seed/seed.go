// Package seed loads the sample order history bundled into the binary.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

//go:embed orders.json
var ordersJSON []byte

type orderRecord struct {
	ID             string         `json:"id"`
	Customer       customerRecord `json:"customer"`
	Items          []lineRecord   `json:"items"`
	Status         string         `json:"status"`
	OrderDate      time.Time      `json:"orderDate"`
	ShippingDate   *time.Time     `json:"shippingDate"`
	DeliveryDate   *time.Time     `json:"deliveryDate"`
	TrackingNumber string         `json:"trackingNumber"`
	Notes          string         `json:"notes"`
}

type customerRecord struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   struct {
		Street  string `json:"street"`
		City    string `json:"city"`
		State   string `json:"state"`
		ZipCode string `json:"zipCode"`
		Country string `json:"country"`
	} `json:"address"`
}

type lineRecord struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Orders builds the bundled order history, most recent first, pricing lines from the given catalog.
func Orders(products []*catalogdomain.Product) ([]*domain.Order, error) {
	return DecodeOrders(ordersJSON, products)
}

// DecodeOrders parses an order history document in the bundled JSON format.
func DecodeOrders(raw []byte, products []*catalogdomain.Product) ([]*domain.Order, error) {
	var records []orderRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	byID := make(map[string]*catalogdomain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	orders := make([]*domain.Order, 0, len(records))
	for _, rec := range records {
		items := make([]domain.LineItem, 0, len(rec.Items))
		for _, line := range rec.Items {
			product, ok := byID[line.ProductID]
			if !ok {
				return nil, fmt.Errorf("order %s: unknown product %q", rec.ID, line.ProductID)
			}
			items = append(items, domain.LineItem{Product: *product, Quantity: line.Quantity})
		}
		c := rec.Customer
		customer := domain.Customer{
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
		order, err := domain.NewOrder(rec.ID, customer, items, rec.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", rec.ID, err)
		}
		status, err := domain.ParseStatus(rec.Status)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", rec.ID, err)
		}
		order.Status = status
		order.ShippingDate = rec.ShippingDate
		order.DeliveryDate = rec.DeliveryDate
		order.TrackingNumber = rec.TrackingNumber
		order.Notes = rec.Notes
		orders = append(orders, order)
	}
	return orders, nil
}
