package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrProductNotFound signals a cart mutation referenced an unknown product.
	ErrProductNotFound = errors.New("product not found")
	// ErrMissingSession signals the caller did not identify its session.
	ErrMissingSession = errors.New("session id is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNilProduct) ||
		errors.Is(err, domain.ErrOutOfStock) ||
		errors.Is(err, ErrMissingSession) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, catalogports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrProductNotFound, err)
	}
	return err
}
