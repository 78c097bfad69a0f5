package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	cartmemory "github.com/Apurer/storefront-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/storefront-api/internal/domains/cart/application"
	carttypes "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
	cartdomain "github.com/Apurer/storefront-api/internal/domains/cart/domain"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

const sessionID = "feature-session"

type cartTestContext struct {
	service *cartapp.Service
	current *carttypes.CartProjection
	err     error
}

func (c *cartTestContext) reset() {
	c.service = nil
	c.current = nil
	c.err = nil
}

func (c *cartTestContext) theCatalogContains(table *godog.Table) error {
	var products []*catalogdomain.Product
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		price, err := decimal.NewFromString(row.Cells[2].Value)
		if err != nil {
			return err
		}
		products = append(products, &catalogdomain.Product{
			ID:       row.Cells[0].Value,
			Name:     row.Cells[1].Value,
			Category: catalogdomain.CategorySupplements,
			Price:    price,
			InStock:  len(row.Cells) < 4 || row.Cells[3].Value != "no",
		})
	}
	repo, err := catalogmemory.NewRepository(products)
	if err != nil {
		return err
	}
	c.service = cartapp.NewService(cartmemory.NewRepository(), catalogapp.NewService(repo))
	return nil
}

func (c *cartTestContext) record(result *carttypes.CartProjection, err error) error {
	c.err = err
	if err == nil {
		c.current = result
	}
	return nil
}

func (c *cartTestContext) iAddOfToTheCart(qty int, productID string) error {
	return c.record(c.service.AddItem(context.Background(), carttypes.AddItemInput{SessionID: sessionID, ProductID: productID, Quantity: qty}))
}

func (c *cartTestContext) iSetTheQuantityOfTo(productID string, qty int) error {
	return c.record(c.service.UpdateQuantity(context.Background(), carttypes.UpdateQuantityInput{SessionID: sessionID, ProductID: productID, Quantity: qty}))
}

func (c *cartTestContext) iRemoveFromTheCart(productID string) error {
	return c.record(c.service.RemoveItem(context.Background(), carttypes.ItemIdentifier{SessionID: sessionID, ProductID: productID}))
}

func (c *cartTestContext) iClearTheCart() error {
	c.err = c.service.Clear(context.Background(), sessionID)
	return nil
}

func (c *cartTestContext) load() (*carttypes.CartProjection, error) {
	return c.service.GetCart(context.Background(), sessionID)
}

func (c *cartTestContext) theCartHasLines(n int) error {
	cart, err := c.load()
	if err != nil {
		return err
	}
	if got := len(cart.Entity.Items()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theCartHolds(qty int, productID string) error {
	cart, err := c.load()
	if err != nil {
		return err
	}
	if got := cart.Entity.Quantity(productID); got != qty {
		return fmt.Errorf("expected %d of %s, got %d", qty, productID, got)
	}
	return nil
}

func (c *cartTestContext) theCartTotalItemsIs(n int) error {
	cart, err := c.load()
	if err != nil {
		return err
	}
	if got := cart.Entity.TotalItems(); got != n {
		return fmt.Errorf("expected %d items, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theCartSubtotalIs(want string) error {
	cart, err := c.load()
	if err != nil {
		return err
	}
	if got := cart.Entity.TotalPrice().StringFixed(2); got != want {
		return fmt.Errorf("expected subtotal %s, got %s", want, got)
	}
	return nil
}

func (c *cartTestContext) theAmountToFreeShippingIs(want string) error {
	cart, err := c.load()
	if err != nil {
		return err
	}
	if got := cart.Entity.AmountToFreeShipping().StringFixed(2); got != want {
		return fmt.Errorf("expected %s to free shipping, got %s", want, got)
	}
	return nil
}

func (c *cartTestContext) theCartIsEmpty() error {
	cart, err := c.load()
	if err != nil {
		return err
	}
	if !cart.Entity.IsEmpty() {
		return fmt.Errorf("expected empty cart, got %d lines", len(cart.Entity.Items()))
	}
	return nil
}

func (c *cartTestContext) theCartOperationFailsAs(kind string) error {
	var want error
	switch kind {
	case "invalid input":
		want = cartapp.ErrInvalidInput
	case "product not found":
		want = cartapp.ErrProductNotFound
	case "out of stock":
		want = cartdomain.ErrOutOfStock
	default:
		return fmt.Errorf("unknown failure kind %q", kind)
	}
	if !errors.Is(c.err, want) {
		return fmt.Errorf("expected %v, got %v", want, c.err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the catalog contains:$`, tc.theCatalogContains)
	ctx.Step(`^I add (-?\d+) of "([^"]*)" to the cart$`, tc.iAddOfToTheCart)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I remove "([^"]*)" from the cart$`, tc.iRemoveFromTheCart)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart holds (\d+) of "([^"]*)"$`, tc.theCartHolds)
	ctx.Step(`^the cart total items is (\d+)$`, tc.theCartTotalItemsIs)
	ctx.Step(`^the cart subtotal is "([^"]*)"$`, tc.theCartSubtotalIs)
	ctx.Step(`^the amount to free shipping is "([^"]*)"$`, tc.theAmountToFreeShippingIs)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the cart operation fails as (invalid input|product not found|out of stock)$`, tc.theCartOperationFailsAs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
