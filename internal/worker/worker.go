package worker

import (
	"context"
	"fmt"

	"bookstore-service/internal/broker"
	"bookstore-service/internal/models"
	"bookstore-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Broadcaster is the notification sink the worker feeds.
type Broadcaster interface {
	Broadcast(n models.Notification)
}

// NotificationWorker consumes order lifecycle events and pushes
// completion notifications to every connected subscriber.
type NotificationWorker struct {
	consumer *broker.Consumer
	handler  *broker.EventHandler
	logger   *zap.Logger
}

// NewNotificationWorker creates a worker wired to the given sink.
func NewNotificationWorker(consumer *broker.Consumer, sink Broadcaster) *NotificationWorker {
	logger := util.GetLogger()

	handler := broker.NewEventHandler()
	handler.OnOrderCompleted(func(ctx context.Context, event *models.OrderCompletedEvent) error {
		// Broadcast ids are fresh per push; the pull feed derives
		// stable ids instead.
		sink.Broadcast(models.Notification{
			Type:        "Order",
			Content:     "Order Completed",
			ID:          uuid.New().String(),
			Timestamp:   event.CompletedAt,
			Title:       "Order Completed",
			Description: fmt.Sprintf("Order for %s completed.", event.UserFullName),
		})

		logger.Info("Broadcast order completion",
			zap.Int64("order_id", event.OrderID), zap.String("event_id", event.EventID))
		return nil
	})

	return &NotificationWorker{
		consumer: consumer,
		handler:  handler,
		logger:   logger,
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.handler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}
