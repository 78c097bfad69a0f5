// Package pricing holds the storefront money rules shared by the cart and order domains.
package pricing

import "github.com/shopspring/decimal"

// CurrencyPlaces is the number of fractional digits shown to shoppers.
const CurrencyPlaces = 2

var (
	// FreeShippingThreshold is the subtotal at which shipping is waived.
	FreeShippingThreshold = decimal.RequireFromString("75.00")
	// FlatShippingFee is charged below the free-shipping threshold.
	FlatShippingFee = decimal.RequireFromString("9.99")
)

// ShippingFor applies the shipping rule to a cart subtotal.
func ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// AmountToFreeShipping reports how much more must be spent to qualify for free shipping.
func AmountToFreeShipping(subtotal decimal.Decimal) decimal.Decimal {
	remaining := FreeShippingThreshold.Sub(subtotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Display renders an amount rounded to currency precision.
func Display(amount decimal.Decimal) string {
	return amount.StringFixed(CurrencyPlaces)
}
