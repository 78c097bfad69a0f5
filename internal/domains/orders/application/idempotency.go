package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
)

type normalizedCheckout struct {
	SessionID string             `json:"sessionId"`
	Customer  normalizedCustomer `json:"customer"`
}

type normalizedCustomer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// FingerprintCheckout builds a deterministic hash of the checkout payload (excluding the idempotency key).
func FingerprintCheckout(input ordertypes.CheckoutInput) (string, error) {
	c := input.Customer.Normalized()
	payload, err := json.Marshal(normalizedCheckout{
		SessionID: input.SessionID,
		Customer: normalizedCustomer{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Street:    c.Address.Street,
			City:      c.Address.City,
			State:     c.Address.State,
			ZipCode:   c.Address.ZipCode,
			Country:   c.Address.Country,
		},
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
