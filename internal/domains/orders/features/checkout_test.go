package features

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	cartmemory "github.com/Apurer/storefront-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/storefront-api/internal/domains/cart/application"
	carttypes "github.com/Apurer/storefront-api/internal/domains/cart/application/types"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/cartsource"
	ordermemory "github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

const sessionID = "feature-session"

type checkoutTestContext struct {
	carts    *cartapp.Service
	orders   *orderapp.Service
	checkout *orderapp.CheckoutCoordinator
	customer domain.Customer
	placed   *domain.Order
	err      error
}

func (c *checkoutTestContext) reset() {
	*c = checkoutTestContext{}
}

func (c *checkoutTestContext) theCatalogContains(table *godog.Table) error {
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
			InStock:  true,
		})
	}
	catalog, err := catalogmemory.NewRepository(products)
	if err != nil {
		return err
	}
	repo, err := ordermemory.NewRepository()
	if err != nil {
		return err
	}
	c.carts = cartapp.NewService(cartmemory.NewRepository(), catalogapp.NewService(catalog))
	source := cartsource.New(c.carts)
	c.orders = orderapp.NewService(repo, source)
	c.checkout = orderapp.NewCheckoutCoordinator(source, repo, workflows.NewInlineCheckout(c.orders), ordermemory.NewCheckoutGuard(),
		orderapp.WithProcessingDelay(0))
	return nil
}

func (c *checkoutTestContext) aValidCustomer(name, email string) error {
	first, last, _ := strings.Cut(name, " ")
	c.customer = domain.Customer{
		FirstName: first, LastName: last, Email: email, Phone: "(555) 123-4567",
		Address: domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"},
	}
	return nil
}

func (c *checkoutTestContext) theCustomerEmailIs(email string) error {
	c.customer.Email = email
	return nil
}

func (c *checkoutTestContext) theCustomerZipCodeIs(zip string) error {
	c.customer.Address.ZipCode = zip
	return nil
}

func (c *checkoutTestContext) iAddOfToTheCart(qty int, productID string) error {
	_, err := c.carts.AddItem(context.Background(), carttypes.AddItemInput{SessionID: sessionID, ProductID: productID, Quantity: qty})
	return err
}

func (c *checkoutTestContext) iCheckOut() error {
	result, err := c.checkout.Checkout(context.Background(), ordertypes.CheckoutInput{SessionID: sessionID, Customer: c.customer})
	c.err = err
	if err == nil {
		c.placed = result.Order
	}
	return nil
}

func (c *checkoutTestContext) anOrderIsPlacedWithStatus(status string) error {
	if c.err != nil {
		return fmt.Errorf("checkout failed: %w", c.err)
	}
	if c.placed == nil || string(c.placed.Status) != status {
		return fmt.Errorf("expected a %s order, got %+v", status, c.placed)
	}
	return nil
}

func (c *checkoutTestContext) current() (*domain.Order, error) {
	if c.placed == nil {
		return nil, fmt.Errorf("no order placed (last error: %v)", c.err)
	}
	return c.orders.GetOrderByID(context.Background(), c.placed.ID)
}

func (c *checkoutTestContext) theOrderAmountIs(field, want string) error {
	order, err := c.current()
	if err != nil {
		return err
	}
	amounts := map[string]decimal.Decimal{"subtotal": order.Subtotal, "shipping": order.Shipping, "total": order.TotalAmount}
	if got := amounts[field].StringFixed(2); got != want {
		return fmt.Errorf("expected order %s %s, got %s", field, want, got)
	}
	return nil
}

func (c *checkoutTestContext) theCartIsEmpty() error {
	return c.theCartHasLines(0)
}

func (c *checkoutTestContext) theCartHasLines(n int) error {
	cart, err := c.carts.GetCart(context.Background(), sessionID)
	if err != nil {
		return err
	}
	if got := len(cart.Entity.Items()); got != n {
		return fmt.Errorf("expected %d cart lines, got %d", n, got)
	}
	return nil
}

func (c *checkoutTestContext) checkoutFailsWithField(field, message string) error {
	var validation *domain.ValidationError
	if !errors.As(c.err, &validation) {
		return fmt.Errorf("expected a validation error, got %v", c.err)
	}
	if got := validation.Fields[field]; got != message {
		return fmt.Errorf("expected %s to say %q, got %q", field, message, got)
	}
	return nil
}

func (c *checkoutTestContext) checkoutFailsBecauseTheCartIsEmpty() error {
	if !errors.Is(c.err, domain.ErrEmptyCart) {
		return fmt.Errorf("expected empty cart error, got %v", c.err)
	}
	return nil
}

func (c *checkoutTestContext) thereAreOrders(n int) error {
	page, err := c.orders.ListOrders(context.Background(), ordertypes.ListOrdersInput{})
	if err != nil {
		return err
	}
	if page.TotalCount != n {
		return fmt.Errorf("expected %d orders, got %d", n, page.TotalCount)
	}
	return nil
}

func (c *checkoutTestContext) theNewestOrderTotalIs(want string) error {
	d, err := c.orders.Dashboard(context.Background())
	if err != nil {
		return err
	}
	if len(d.Recent) == 0 {
		return errors.New("no orders")
	}
	if got := d.Recent[0].TotalAmount.StringFixed(2); got != want {
		return fmt.Errorf("expected newest total %s, got %s", want, got)
	}
	return nil
}

func (c *checkoutTestContext) theProviderMarksTheOrder(status string) error {
	if c.placed == nil {
		return errors.New("no order placed")
	}
	return c.theProviderMarksOrderAs(c.placed.ID, status)
}

func (c *checkoutTestContext) theProviderMarksOrderAs(id, status string) error {
	_, c.err = c.orders.UpdateOrderStatus(context.Background(), ordertypes.UpdateStatusInput{ID: id, Status: status})
	return nil
}

func (c *checkoutTestContext) theOrderStatusIs(status string) error {
	order, err := c.current()
	if err != nil {
		return err
	}
	if string(order.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, order.Status)
	}
	return nil
}

func (c *checkoutTestContext) theStatusUpdateFailsAsNotFound() error {
	if !errors.Is(c.err, ports.ErrNotFound) {
		return fmt.Errorf("expected not found, got %v", c.err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the catalog contains:$`, tc.theCatalogContains)
	ctx.Step(`^a valid customer "([^"]*)" with email "([^"]*)"$`, tc.aValidCustomer)
	ctx.Step(`^the customer email is "([^"]*)"$`, tc.theCustomerEmailIs)
	ctx.Step(`^the customer zip code is "([^"]*)"$`, tc.theCustomerZipCodeIs)
	ctx.Step(`^I add (\d+) of "([^"]*)" to the cart$`, tc.iAddOfToTheCart)
	ctx.Step(`^I check out$`, tc.iCheckOut)
	ctx.Step(`^an order is placed with status "([^"]*)"$`, tc.anOrderIsPlacedWithStatus)
	ctx.Step(`^the order (subtotal|shipping|total) is "([^"]*)"$`, tc.theOrderAmountIs)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^checkout fails with field "([^"]*)" saying "([^"]*)"$`, tc.checkoutFailsWithField)
	ctx.Step(`^checkout fails because the cart is empty$`, tc.checkoutFailsBecauseTheCartIsEmpty)
	ctx.Step(`^there are (\d+) orders?$`, tc.thereAreOrders)
	ctx.Step(`^the newest order total is "([^"]*)"$`, tc.theNewestOrderTotalIs)
	ctx.Step(`^the provider marks the order "([^"]*)"$`, tc.theProviderMarksTheOrder)
	ctx.Step(`^the provider marks order "([^"]*)" as "([^"]*)"$`, tc.theProviderMarksOrderAs)
	ctx.Step(`^the order status is "([^"]*)"$`, tc.theOrderStatusIs)
	ctx.Step(`^the status update fails as not found$`, tc.theStatusUpdateFailsAsNotFound)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"checkout.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
