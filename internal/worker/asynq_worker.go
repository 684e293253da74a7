package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/glowmart/glowmart-api/internal/constants"
	"github.com/glowmart/glowmart-api/internal/logger"
	"github.com/glowmart/glowmart-api/internal/provider"
	"github.com/glowmart/glowmart-api/internal/queue"
	"github.com/glowmart/glowmart-api/internal/service"
	"github.com/glowmart/glowmart-api/internal/shipping/shiprocket"

	"github.com/hibiken/asynq"
)

// Consumer handles queued shipment tasks
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the task consumer
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers to the mux
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(constants.TaskShipmentTrackSync, c.handleShipmentTrackSync)
	mux.HandleFunc(constants.TaskWebhookRetry, c.handleWebhookRetry)
}

func (c *Consumer) handleShipmentTrackSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_track_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ShipmentTrackSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_track_sync_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_track_sync_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.ShipmentService == nil {
		logger.Warnw("worker_track_sync_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.ShipmentService.SyncTracking(ctx, payload.OrderID); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			logger.Debugw("worker_track_sync_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		case errors.Is(err, shiprocket.ErrNotConfigured):
			logger.Debugw("worker_track_sync_skip_carrier_unconfigured", "order_id", payload.OrderID)
			return nil
		default:
			logger.Warnw("worker_track_sync_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleWebhookRetry(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_webhook_retry_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.WebhookRetryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_webhook_retry_unmarshal_failed", "error", err)
		return err
	}
	if payload.EventID == 0 {
		logger.Debugw("worker_webhook_retry_skip_invalid_payload", "event_id", payload.EventID)
		return nil
	}
	if c.ShipmentService == nil {
		logger.Warnw("worker_webhook_retry_skip_service_nil", "event_id", payload.EventID)
		return nil
	}
	if err := c.ShipmentService.RetryWebhookEvent(payload.EventID); err != nil {
		logger.Warnw("worker_webhook_retry_failed", "event_id", payload.EventID, "error", err)
		return err
	}
	return nil
}

// activeShipmentStatuses are statuses the tracking sweep keeps polling
func activeShipmentStatuses() []string {
	return []string{
		constants.ShipmentStatusCreated,
		constants.ShipmentStatusAWBGenerated,
		constants.ShipmentStatusPickupScheduled,
		constants.ShipmentStatusInTransit,
		constants.ShipmentStatusOutForDelivery,
	}
}
