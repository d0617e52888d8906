package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"checkout-service/internal/broker"
	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// DeliverySink receives confirmation events for actual delivery (mail, push).
type DeliverySink interface {
	Deliver(ctx context.Context, event *models.OrderConfirmationEvent) error
}

// LogSink logs confirmations instead of sending mail. Stands in for the
// mailer in environments without an email provider configured.
type LogSink struct{}

func (LogSink) Deliver(_ context.Context, event *models.OrderConfirmationEvent) error {
	util.NamedLogger("notifications").Info("Order confirmation delivered",
		zap.String("order_number", event.OrderNumber),
		zap.String("email", event.CustomerEmail),
		zap.Float64("total", event.Total))
	return nil
}

// NotificationWorker drains order confirmation events from Kafka and hands
// them to the delivery sink. Delivery errors are logged and the message is
// committed anyway; confirmations are best-effort by contract.
type NotificationWorker struct {
	consumer *broker.Consumer
	sink     DeliverySink
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, sink DeliverySink) *NotificationWorker {
	return &NotificationWorker{
		consumer: consumer,
		sink:     sink,
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")

	return w.consumer.StartConsuming(ctx, func(ctx context.Context, msg kafka.Message) error {
		var baseEvent models.BaseEvent
		if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}

		if baseEvent.EventType != models.EventTypeOrderConfirmation {
			return nil
		}

		var event models.OrderConfirmationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderConfirmation event: %w", err)
		}

		if err := w.sink.Deliver(ctx, &event); err != nil {
			log.Printf("Failed to deliver confirmation for order %s: %v", event.OrderNumber, err)
		}
		return nil
	})
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}
