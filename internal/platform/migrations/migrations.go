package migrations

import (
	"fmt"

	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	orderspostgres "github.com/Apurer/storefront-api/internal/domains/orders/adapters/persistence/postgres"
)

// Run applies the schema for the bounded contexts backed by Postgres.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := catalogpostgres.Migrate(db); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	if err := orderspostgres.Migrate(db); err != nil {
		return fmt.Errorf("migrate orders: %w", err)
	}
	return nil
}
