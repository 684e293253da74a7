package worker

import (
	"context"
	"testing"

	"github.com/glowmart/glowmart-api/internal/constants"
	"github.com/glowmart/glowmart-api/internal/provider"

	"github.com/hibiken/asynq"
)

func TestActiveShipmentStatuses(t *testing.T) {
	statuses := activeShipmentStatuses()
	if len(statuses) == 0 {
		t.Fatal("expected at least one active status")
	}
	for _, status := range statuses {
		if status == constants.ShipmentStatusDelivered || status == constants.ShipmentStatusCancelled || status == constants.ShipmentStatusNone {
			t.Fatalf("terminal status %s should not be swept", status)
		}
	}
}

func TestRegisterNilSafe(t *testing.T) {
	var c *Consumer
	c.Register(nil)

	consumer := NewConsumer(&provider.Container{})
	consumer.Register(asynq.NewServeMux())
}

func TestHandleShipmentTrackSyncBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task := asynq.NewTask(constants.TaskShipmentTrackSync, []byte("not json"))
	if err := consumer.handleShipmentTrackSync(context.Background(), task); err == nil {
		t.Fatal("expected unmarshal error")
	}

	task = asynq.NewTask(constants.TaskShipmentTrackSync, []byte(`{"order_id":0}`))
	if err := consumer.handleShipmentTrackSync(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}
}

func TestHandleWebhookRetryBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task := asynq.NewTask(constants.TaskWebhookRetry, []byte(`{"event_id":0}`))
	if err := consumer.handleWebhookRetry(context.Background(), task); err != nil {
		t.Fatalf("zero event id should be skipped, got %v", err)
	}
}
