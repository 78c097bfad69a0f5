package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

// ErrInvalidInput signals the catalog query was malformed.
var ErrInvalidInput = errors.New("invalid catalog query")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrInvalidSort) ||
		errors.Is(err, domain.ErrInvalidPriceRange) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
