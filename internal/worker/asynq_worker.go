package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/provider"
	"github.com/carman72tmn/foodtech/internal/queue"
	"github.com/carman72tmn/foodtech/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles queued tasks against the service container.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a task consumer.
func NewConsumer(container *provider.Container) *Consumer {
	return &Consumer{Container: container}
}

// Register binds task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(constants.TaskOrderSubmit, c.handleOrderSubmit)
	mux.HandleFunc(constants.TaskSyncStopLists, c.handleStopListSync)
}

// handleOrderSubmit pushes one order to the POS. Conditions that a retry
// cannot fix return nil so asynq does not reschedule the task.
func (c *Consumer) handleOrderSubmit(ctx context.Context, t *asynq.Task) error {
	var payload queue.OrderSubmitPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Errorw("worker_order_submit_bad_payload", "error", err)
		return nil
	}

	err := c.SubmissionService.SubmitOrder(ctx, payload.OrderID)
	if err == nil {
		return nil
	}
	if errors.Is(err, service.ErrOrderNotFound) {
		logger.Warnw("worker_order_submit_missing_order", "order_id", payload.OrderID)
		return nil
	}
	if errors.Is(err, service.ErrExternalSubmissionFailed) {
		// The submission service already spent its retry budget. The order
		// stays in status new and can be resubmitted manually.
		logger.Errorw("worker_order_submit_exhausted", "order_id", payload.OrderID, "error", err)
		return nil
	}
	logger.Errorw("worker_order_submit_failed", "order_id", payload.OrderID, "error", err)
	return err
}

// handleStopListSync refreshes product availability.
func (c *Consumer) handleStopListSync(ctx context.Context, t *asynq.Task) error {
	result, err := c.SyncService.SyncStopLists(ctx)
	if err != nil {
		logger.Errorw("worker_stop_list_sync_failed", "error", err)
		return err
	}
	logger.Infow("worker_stop_list_sync_done", "run_id", result.RunID, "flipped", result.Products)
	return nil
}
