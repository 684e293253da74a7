package worker

import (
	"context"
	"errors"
	"time"

	"github.com/glowmart/glowmart-api/internal/config"
	"github.com/glowmart/glowmart-api/internal/logger"
	"github.com/glowmart/glowmart-api/internal/queue"

	"github.com/hibiken/asynq"
)

const trackSweepInterval = 15 * time.Minute

// Service runs the asynq worker and the tracking sweep
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the queue worker service
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name service name
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the worker until stopped
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.QueueClient != nil && s.consumer.OrderRepo != nil {
		go s.runTrackSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the worker down
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runTrackSweepLoop periodically enqueues a tracking sync for every order
// with an in-flight shipment, so statuses converge even when carrier
// webhooks are dropped.
func (s *Service) runTrackSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	runOnce := func() {
		orders, err := s.consumer.OrderRepo.ListByShipmentStatus(activeShipmentStatuses())
		if err != nil {
			logger.Warnw("worker_track_sweep_list_failed", "error", err)
			return
		}
		for _, order := range orders {
			err := s.consumer.QueueClient.EnqueueShipmentTrackSync(queue.ShipmentTrackSyncPayload{
				OrderID: order.ID,
			}, 0)
			if err != nil {
				logger.Warnw("worker_track_sweep_enqueue_failed", "order_id", order.ID, "error", err)
			}
		}
		if len(orders) > 0 {
			logger.Infow("worker_track_sweep", "orders", len(orders))
		}
	}
	runOnce()

	ticker := time.NewTicker(trackSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
