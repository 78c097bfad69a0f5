package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated an order invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrMissingSession signals a checkout without a shopper session.
	ErrMissingSession = errors.New("session id is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidCustomer) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrMissingProduct) ||
		errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrInvalidSort) ||
		errors.Is(err, domain.ErrInvalidDateRange) ||
		errors.Is(err, ErrMissingSession) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
