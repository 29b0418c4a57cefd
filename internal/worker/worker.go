package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NotificationWorker consumes order events and sends customer notifications.
// Delivery is a log line for now; the consumer loop, offsets and routing are
// the real structure a mail provider would plug into.
type NotificationWorker struct {
	consumer *broker.Consumer
	logger   *zap.Logger
}

// NewNotificationWorker creates a new notification worker.
func NewNotificationWorker(consumer *broker.Consumer) *NotificationWorker {
	return &NotificationWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}
}

// Start begins consuming order events until the context is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Notification worker started")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop closes the underlying consumer.
func (w *NotificationWorker) Stop() {
	if err := w.consumer.Close(); err != nil {
		w.logger.Error("Failed to close consumer", zap.Error(err))
	}
}

func (w *NotificationWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch base.EventType {
	case models.EventTypeOrderCreated:
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderCreated event: %w", err)
		}
		w.logger.Info("Sending order confirmation",
			zap.String("order_id", event.OrderID),
			zap.String("customer_email", event.CustomerEmail),
			zap.Int("items", len(event.Items)),
			zap.Float64("total", event.Total))

	case models.EventTypeOrderStatusChanged:
		var event models.OrderStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
		}
		w.logger.Info("Sending order status update",
			zap.String("order_id", event.OrderID),
			zap.String("customer_email", event.CustomerEmail),
			zap.String("old_status", event.OldStatus),
			zap.String("new_status", event.NewStatus))

	default:
		w.logger.Warn("Skipping unknown event type",
			zap.String("event_type", base.EventType),
			zap.String("event_id", base.EventID))
	}

	return nil
}
