package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/storefront-api/internal/durable/temporal/activities/orders"
)

func placementActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
}

// PlacementBudget is the longest the placement activity can take across every attempt and backoff.
func PlacementBudget() time.Duration {
	options := placementActivityOptions()
	policy := options.RetryPolicy
	total := time.Duration(policy.MaximumAttempts) * options.StartToCloseTimeout
	backoff := policy.InitialInterval
	for attempt := int32(1); attempt < policy.MaximumAttempts; attempt++ {
		total += backoff
		backoff = time.Duration(float64(backoff) * policy.BackoffCoefficient)
		if backoff > policy.MaximumInterval {
			backoff = policy.MaximumInterval
		}
	}
	return total
}

// RunOrderPlacementSequence executes the activities that commit a checkout.
func RunOrderPlacementSequence(ctx workflow.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "orderId", input.OrderID)
	ctx = workflow.WithActivityOptions(ctx, placementActivityOptions())

	var order domain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID)
	return &order, nil
}
