package checkout

import (
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/durable/temporal/sequences"
)

const (
	// CheckoutWorkflowName is the public identifier for registering the workflow.
	CheckoutWorkflowName = "orders.workflows.Checkout"
	// CheckoutTaskQueue is the queue consumed by the worker processing checkouts.
	CheckoutTaskQueue = "ORDER_CHECKOUT"
)

// CheckoutWorkflowInput captures the checkout command and the caller's trace.
type CheckoutWorkflowInput struct {
	Command ordertypes.PlaceOrderInput
	TraceID string
}

// CheckoutWorkflow waits out the processing delay and then commits the order. The order id is fixed
// before the delay so activity retries cannot create a second order.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	command := input.Command
	if command.OrderID == "" {
		encoded := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
			id, err := domain.NewOrderID()
			if err != nil {
				return ""
			}
			return id
		})
		if err := encoded.Get(&command.OrderID); err != nil {
			return nil, err
		}
		if command.OrderID == "" {
			return nil, temporal.NewNonRetryableApplicationError("order id generation failed", "OrderID", nil)
		}
	}
	logger.Info("CheckoutWorkflow started", withTraceID(input.TraceID, "orderId", command.OrderID, "sessionId", command.SessionID)...)

	if command.ProcessingDelay > 0 {
		if err := workflow.Sleep(ctx, command.ProcessingDelay); err != nil {
			logger.Error("CheckoutWorkflow interrupted", withTraceID(input.TraceID, "orderId", command.OrderID, "error", err)...)
			return nil, err
		}
	}

	order, err := sequences.RunOrderPlacementSequence(ctx, command)
	if err != nil {
		logger.Error("CheckoutWorkflow failed", withTraceID(input.TraceID, "orderId", command.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
