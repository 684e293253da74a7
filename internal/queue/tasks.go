package queue

import (
	"encoding/json"

	"github.com/glowmart/glowmart-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskShipmentTrackSync refreshes carrier tracking for one order
	TaskShipmentTrackSync = constants.TaskShipmentTrackSync
	// TaskWebhookRetry re-applies a dead-lettered carrier webhook event
	TaskWebhookRetry = constants.TaskWebhookRetry
)

// ShipmentTrackSyncPayload tracking refresh task payload
type ShipmentTrackSyncPayload struct {
	OrderID uint `json:"order_id"`
}

// WebhookRetryPayload webhook retry task payload
type WebhookRetryPayload struct {
	EventID uint `json:"event_id"`
}

// NewShipmentTrackSyncTask builds a tracking refresh task
func NewShipmentTrackSyncTask(payload ShipmentTrackSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskShipmentTrackSync, body), nil
}

// NewWebhookRetryTask builds a webhook retry task
func NewWebhookRetryTask(payload WebhookRetryPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWebhookRetry, body), nil
}
