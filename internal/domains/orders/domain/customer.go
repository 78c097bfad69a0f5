package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultCountry is used when a checkout omits the country.
const DefaultCountry = "USA"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// ErrInvalidCustomer is matched by every customer ValidationError.
var ErrInvalidCustomer = errors.New("invalid customer details")

// Address is a shipping address.
type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// Customer is the contact and shipping snapshot captured with an order.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   Address
}

// Normalized trims every field and applies the default country.
func (c Customer) Normalized() Customer {
	out := Customer{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     strings.TrimSpace(c.Phone),
		Address: Address{
			Street:  strings.TrimSpace(c.Address.Street),
			City:    strings.TrimSpace(c.Address.City),
			State:   strings.TrimSpace(c.Address.State),
			ZipCode: strings.TrimSpace(c.Address.ZipCode),
			Country: strings.TrimSpace(c.Address.Country),
		},
	}
	if out.Address.Country == "" {
		out.Address.Country = DefaultCountry
	}
	return out
}

// ValidationError maps field names to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return ErrInvalidCustomer.Error() + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is match ErrInvalidCustomer.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidCustomer
}

// ValidateCustomer checks every required field and format. It returns nil or a *ValidationError.
func ValidateCustomer(c Customer) error {
	c = c.Normalized()
	fields := map[string]string{}

	if c.FirstName == "" {
		fields["firstName"] = "First name is required"
	}
	if c.LastName == "" {
		fields["lastName"] = "Last name is required"
	}
	switch {
	case c.Email == "":
		fields["email"] = "Email is required"
	case !emailPattern.MatchString(c.Email):
		fields["email"] = "Please enter a valid email address"
	}
	switch {
	case c.Phone == "":
		fields["phone"] = "Phone number is required"
	case !phonePattern.MatchString(c.Phone):
		fields["phone"] = "Please enter a valid phone number"
	}
	if c.Address.Street == "" {
		fields["street"] = "Street address is required"
	}
	if c.Address.City == "" {
		fields["city"] = "City is required"
	}
	if c.Address.State == "" {
		fields["state"] = "State is required"
	}
	switch {
	case c.Address.ZipCode == "":
		fields["zipCode"] = "ZIP code is required"
	case !zipPattern.MatchString(c.Address.ZipCode):
		fields["zipCode"] = "Please enter a valid ZIP code"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
