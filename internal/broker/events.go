package broker

import (
	"context"
	"time"

	"checkout-service/internal/models"

	"github.com/google/uuid"
)

// NotificationPublisher emits order confirmation events for the notification
// worker. Publishing is fire-and-forget from the orchestrator's point of
// view: errors are returned for logging but must never fail an order.
type NotificationPublisher struct {
	producer *Producer
}

// NewNotificationPublisher creates a new notification publisher
func NewNotificationPublisher(producer *Producer) *NotificationPublisher {
	return &NotificationPublisher{producer: producer}
}

// PublishOrderConfirmation publishes an ORDER_CONFIRMATION event keyed by
// order number.
func (np *NotificationPublisher) PublishOrderConfirmation(ctx context.Context, order *models.Order) error {
	event := &models.OrderConfirmationEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderConfirmation,
			Timestamp: time.Now(),
		},
		OrderNumber:    order.OrderNumber,
		CustomerEmail:  order.CustomerEmail,
		CustomerName:   order.CustomerName,
		ItemCount:      len(order.Items),
		Subtotal:       order.Subtotal,
		ShippingCost:   order.ShippingCost,
		ShippingMethod: order.ShippingMethod,
		TaxAmount:      order.TaxAmount,
		Total:          order.Total,
	}
	return np.producer.PublishEvent(ctx, "order-"+order.OrderNumber, event)
}
