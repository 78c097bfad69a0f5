package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/storefront-api/internal/durable/temporal/activities/orders"
)

type stubCarts struct {
	items    []domain.LineItem
	deducted bool
}

func (s *stubCarts) Snapshot(context.Context, string) ([]domain.LineItem, error) {
	if s.deducted {
		return nil, nil
	}
	return s.items, nil
}

func (s *stubCarts) Deduct(context.Context, string, []domain.LineItem) error {
	s.deducted = true
	return nil
}

func customer() domain.Customer {
	return domain.Customer{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Phone: "(555) 123-4567",
		Address: domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"},
	}
}

func newEnv(t *testing.T, carts *stubCarts) (*testsuite.TestWorkflowEnvironment, *memory.Repository) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	repo, err := memory.NewRepository()
	require.NoError(t, err)
	acts := orderactivities.NewActivities(application.NewService(repo, carts))
	env.RegisterWorkflowWithOptions(CheckoutWorkflow, workflow.RegisterOptions{Name: CheckoutWorkflowName})
	env.RegisterActivityWithOptions(acts.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	return env, repo
}

func TestCheckoutWorkflow_PlacesOrderAfterDelay(t *testing.T) {
	carts := &stubCarts{items: []domain.LineItem{{
		Product:  catalogdomain.Product{ID: "whey-isolate-van", Name: "Whey Isolate", Category: catalogdomain.CategoryProtein, Price: decimal.RequireFromString("49.99")},
		Quantity: 1,
	}}}
	env, repo := newEnv(t, carts)

	env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{
		Command: ordertypes.PlaceOrderInput{SessionID: "s1", Customer: customer(), ProcessingDelay: 2 * time.Second},
		TraceID: "trace-1",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var order domain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	require.True(t, strings.HasPrefix(order.ID, "ORD-"))
	require.Equal(t, "59.98", order.TotalAmount.StringFixed(2))
	require.Equal(t, domain.StatusPending, order.Status)
	require.True(t, carts.deducted)

	stored, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, "9.99", stored.Shipping.StringFixed(2))
}

func TestCheckoutWorkflow_EmptyCartIsNotRetried(t *testing.T) {
	env, repo := newEnv(t, &stubCarts{})

	env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{
		Command: ordertypes.PlaceOrderInput{OrderID: "ORD-FIXED", SessionID: "s1", Customer: customer()},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, orderactivities.ErrTypeEmptyCart, appErr.Type())

	list, listErr := repo.List(context.Background())
	require.NoError(t, listErr)
	require.Empty(t, list)
}

func TestCheckoutWorkflow_InvalidCustomerCarriesFields(t *testing.T) {
	env, _ := newEnv(t, &stubCarts{})
	bad := customer()
	bad.Email = "nope"

	env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{
		Command: ordertypes.PlaceOrderInput{SessionID: "s1", Customer: bad},
	})

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(env.GetWorkflowError(), &appErr))
	require.Equal(t, orderactivities.ErrTypeValidation, appErr.Type())
	var fields map[string]string
	require.NoError(t, appErr.Details(&fields))
	require.Equal(t, "Please enter a valid email address", fields["email"])
}
